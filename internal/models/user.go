package models

import (
	"time"
)

const (
	// TimestampLayout renders as DD/MM/YYYY HH:MM:SS.
	TimestampLayout = "02/01/2006 15:04:05"
	// DateLayout renders as DD/MM/YYYY.
	DateLayout = "02/01/2006"
)

// DateOfBirthLayouts are tried in order when parsing a registration date of birth.
var DateOfBirthLayouts = []string{"2006/01/02", "02/01/2006", "01/02/2006"}

type User struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Email          string     `json:"email" gorm:"size:254;not null;uniqueIndex"` // stored lower-cased
	Password       string     `json:"-" gorm:"not null"`                          // bcrypt hash
	FirstName      string     `json:"first_name" gorm:"size:150"`
	LastName       string     `json:"last_name" gorm:"size:150"`
	DateOfBirth    *time.Time `json:"date_of_birth" gorm:"type:date"`
	IsActive       bool       `json:"-" gorm:"not null;index"`
	IsStaff        bool       `json:"-" gorm:"not null"`
	IsSuperuser    bool       `json:"-" gorm:"not null"`
	FollowersCount int        `json:"followers_count" gorm:"not null;default:0"`
	RequestCount   int        `json:"request_count" gorm:"not null;default:0"`
	DateJoined     time.Time  `json:"date_joined" gorm:"autoCreateTime"`
	LastLogin      *time.Time `json:"-"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,max=128"`
	Password2   string `json:"password2" validate:"required"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,dob"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID             uint    `json:"id"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	DateOfBirth    *string `json:"date_of_birth"`
	DateJoined     *string `json:"date_joined"`
	FollowersCount int     `json:"followers_count"`
	RequestCount   int     `json:"request_count"`
}

func (u *User) ToResponse() UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FollowersCount: u.FollowersCount,
		RequestCount:   u.RequestCount,
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format(DateLayout)
		resp.DateOfBirth = &dob
	}
	if !u.DateJoined.IsZero() {
		joined := u.DateJoined.Format(TimestampLayout)
		resp.DateJoined = &joined
	}
	return resp
}

func UsersToResponse(users []User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	return out
}

// ParseDateOfBirth parses value using DateOfBirthLayouts.
func ParseDateOfBirth(value string) (time.Time, bool) {
	for _, layout := range DateOfBirthLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package services

import "fmt"

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindForbidden
	KindNotFound
	KindAuthentication
)

// Error is a failure the caller is expected to see. Field names the offending input
// field, empty for errors that concern the request as a whole. Two errors match under
// errors.Is when their codes are equal, so formatted instances still match the
// package-level sentinels.
type Error struct {
	Kind    ErrorKind
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrDuplicateRequest  = &Error{Kind: KindValidation, Code: "duplicate_request", Message: "Friend request already sent."}
	ErrRateLimitExceeded = &Error{Kind: KindValidation, Code: "rate_limit_exceeded", Message: "You can only send 3 friend requests per minute."}
	ErrSelfRequest       = &Error{Kind: KindValidation, Code: "self_request", Field: "to_user", Message: "You cannot send a friend request to yourself."}
	ErrInvalidRecipient  = &Error{Kind: KindValidation, Code: "invalid_recipient", Field: "to_user", Message: "Invalid recipient."}
	ErrAlreadyFriends    = &Error{Kind: KindValidation, Code: "already_friends", Message: "You are already friends with this user."}
	ErrInvalidStatus     = &Error{Kind: KindValidation, Code: "invalid_status", Field: "status", Message: "Status must be either accepted or rejected."}
	ErrForbidden         = &Error{Kind: KindForbidden, Code: "forbidden", Message: "You cannot respond to this friend request."}
	ErrRequestNotFound   = &Error{Kind: KindNotFound, Code: "request_not_found", Message: "Friend request not found."}

	ErrDuplicateEmail     = &Error{Kind: KindValidation, Code: "duplicate_email", Field: "email", Message: "A user with that email already exists."}
	ErrPasswordMismatch   = &Error{Kind: KindValidation, Code: "password_mismatch", Field: "password", Message: "Password fields didn't match."}
	ErrWeakPassword       = &Error{Kind: KindValidation, Code: "weak_password", Field: "password", Message: "This password is too weak."}
	ErrInvalidDateOfBirth = &Error{Kind: KindValidation, Code: "invalid_date_of_birth", Field: "date_of_birth", Message: "Date has wrong format. Use one of these formats instead: YYYY/MM/DD, DD/MM/YYYY, MM/DD/YYYY."}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: "invalid_credentials", Message: "Invalid credentials."}
)

func rateLimitError(limit int, window string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    ErrRateLimitExceeded.Code,
		Message: fmt.Sprintf("You can only send %d friend requests per %s.", limit, window),
	}
}

func weakPasswordError(message string) *Error {
	return &Error{Kind: KindValidation, Code: ErrWeakPassword.Code, Field: "password", Message: message}
}

package services

import (
	"strings"
	"unicode"
)

const minPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "11111111": {},
	"abc12345": {}, "football": {}, "baseball": {}, "welcome1": {}, "sunshine": {},
	"princess": {}, "admin123": {}, "letmein1": {}, "trustno1": {}, "passw0rd": {},
}

// validatePassword applies the registration password rules and returns the first one
// that fails. attrs are user attributes (email, names) the password must not resemble.
func validatePassword(password string, attrs map[string]string) error {
	if len([]rune(password)) < minPasswordLength {
		return weakPasswordError("This password is too short. It must contain at least 8 characters.")
	}
	if isNumeric(password) {
		return weakPasswordError("This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return weakPasswordError("This password is too common.")
	}
	lowered := strings.ToLower(password)
	for _, name := range []string{"email", "first name", "last name"} {
		value := strings.ToLower(attrs[name])
		if name == "email" {
			value, _, _ = strings.Cut(value, "@")
		}
		if len(value) < 3 {
			continue
		}
		if strings.Contains(lowered, value) || strings.Contains(value, lowered) {
			return weakPasswordError("The password is too similar to the " + name + ".")
		}
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

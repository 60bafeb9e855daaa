package service

import (
	"errors"
	"fmt"
	"net/mail"
)

// ErrValidation tags field validation failures. Wrapped errors carry the
// offending field in their message.
var ErrValidation = errors.New("validation failed")

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 8
	maxPasswordLen = 100
	maxFullNameLen = 100
)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email is not a valid address", ErrValidation)
	}
	return nil
}

func validateUsername(username string) error {
	if n := len(username); n < minUsernameLen || n > maxUsernameLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, minUsernameLen, maxUsernameLen)
	}
	return nil
}

func validatePassword(password string) error {
	if n := len(password); n < minPasswordLen || n > maxPasswordLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrValidation, minPasswordLen, maxPasswordLen)
	}
	return nil
}

func validateFullName(fullName string) error {
	if len(fullName) > maxFullNameLen {
		return fmt.Errorf("%w: full name must be at most %d characters", ErrValidation, maxFullNameLen)
	}
	return nil
}

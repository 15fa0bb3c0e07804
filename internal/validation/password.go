package validation

import (
	"errors"
)

var (
	ErrPasswordRequired = errors.New("password is required")
	// bcrypt silently truncates input beyond 72 bytes, which is a security
	// risk; reject instead.
	ErrPasswordTooLong = errors.New("password must not exceed 72 characters")
)

// ValidatePassword checks basic password constraints before hashing
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	if len(password) > 72 {
		return ErrPasswordTooLong
	}

	return nil
}

package service

import (
	"fmt"
	"strings"

	"taxi-booking/internal/auth-service/core/myerrors"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinUsernameLen = 1
	MaxUsernameLen = 100

	MinEmailLen = 5
	MaxEmailLen = 100

	MinPasswordLen = 5
	MaxPasswordLen = 50

	HashFactor = 10
)

// normalizeEmail is the single email policy: emails compare case-insensitively.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(username, email, password string, needPassword bool) error {
	if err := validateName(username); err != nil {
		return fmt.Errorf("%w: invalid username: %v", myerrors.ErrInvalidInput, err)
	}

	if err := validateEmail(email); err != nil {
		return fmt.Errorf("%w: invalid email: %v", myerrors.ErrInvalidInput, err)
	}

	if needPassword || password != "" {
		if err := validatePassword(password); err != nil {
			return fmt.Errorf("%w: invalid password: %v", myerrors.ErrInvalidInput, err)
		}
	}

	return nil
}

func validateLogin(email, password string, needPassword bool) error {
	if err := validateEmail(email); err != nil {
		return fmt.Errorf("%w: invalid email: %v", myerrors.ErrInvalidInput, err)
	}

	if needPassword && password == "" {
		return fmt.Errorf("%w: invalid password: %v", myerrors.ErrInvalidInput, myerrors.ErrFieldIsEmpty)
	}
	return nil
}

func validateName(username string) error {
	if username == "" {
		return myerrors.ErrFieldIsEmpty
	}

	usernameLen := len(username)
	if usernameLen < MinUsernameLen || usernameLen > MaxUsernameLen {
		return fmt.Errorf("must be in range [%d, %d]", MinUsernameLen, MaxUsernameLen)
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return myerrors.ErrFieldIsEmpty
	}

	emailLen := len(email)
	if emailLen < MinEmailLen || emailLen > MaxEmailLen {
		return fmt.Errorf("must be in range [%d, %d]", MinEmailLen, MaxEmailLen)
	}

	if strings.Count(email, "@") != 1 {
		return fmt.Errorf("must contain only one @: %s", email)
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return myerrors.ErrFieldIsEmpty
	}

	passwordLen := len(password)
	if passwordLen < MinPasswordLen || passwordLen > MaxPasswordLen {
		return fmt.Errorf("must be in range [%d, %d]", MinPasswordLen, MaxPasswordLen)
	}
	return nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), HashFactor)
}

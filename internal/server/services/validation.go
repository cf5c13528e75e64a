package services

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/secretkeeper/internal/common"
	"github.com/dmitrijs2005/secretkeeper/internal/server/auth"
)

const MaxSecretLength = 10000

// NormalizeEmail trims and lower-cases email and checks it is a bare address.
func NormalizeEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return "", fmt.Errorf("%w: invalid email", common.ErrorValidation)
	}
	return e, nil
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if len(password) > auth.MaxPasswordBytes {
		return fmt.Errorf("%w: password is longer than %d bytes", common.ErrorValidation, auth.MaxPasswordBytes)
	}
	return nil
}

func validateSecretText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: secret is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(text) > MaxSecretLength {
		return fmt.Errorf("%w: secret is longer than %d characters", common.ErrorValidation, MaxSecretLength)
	}
	return nil
}

func validateSecretID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: secret id must be positive", common.ErrorValidation)
	}
	return nil
}

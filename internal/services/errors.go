package services

import (
	"errors"
	"fmt"

	"github.com/sjperalta/backoffice-api/internal/repository"
	"gorm.io/gorm"
)

// Common service errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInvalidState      = errors.New("invalid state transition")
	ErrUsernameNotFound  = errors.New("username does not exist")
	ErrWrongPassword     = errors.New("wrong password")
	ErrIdentityNotFound  = errors.New("account not found")
	ErrSessionSuperseded = errors.New("account signed in elsewhere")
)

// BusinessError is a rule violation the caller can show as is
type BusinessError struct {
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError creates a BusinessError with a formatted message
func NewBusinessError(code int, format string, args ...any) *BusinessError {
	return &BusinessError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// notFoundAs maps a missing row to a 404 BusinessError with the given message
func notFoundAs(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &BusinessError{Code: 404, Message: message}
	}
	return err
}

// duplicateAs maps a unique-key violation to ErrDuplicate
func duplicateAs(err error, what string) error {
	if repository.IsDuplicateKeyError(err, "") {
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	}
	return err
}

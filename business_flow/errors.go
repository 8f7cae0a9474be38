// Package businessflow contains the core business logic of the spam caller registry
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Registry errors
	ErrSpamNumberRequired      = errors.New("spam number is required")
	ErrSpamNumberAlreadyExists = errors.New("spam number already exists")
	ErrSpamNumberNotFound      = errors.New("spam number not found")
	ErrSpamNumberTooLong       = errors.New("spam number is too long")

	// Call event errors
	ErrCallEventRequired = errors.New("call event type and source are required")

	// Export errors
	ErrUnsupportedExportFormat = errors.New("unsupported export format")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsSpamNumberRequired(err error) bool {
	return errors.Is(err, ErrSpamNumberRequired)
}

// IsSpamNumberAlreadyExists reports the Conflict condition of a registration
func IsSpamNumberAlreadyExists(err error) bool {
	return errors.Is(err, ErrSpamNumberAlreadyExists)
}

// IsSpamNumberNotFound reports the NotFound condition of an unregistration
func IsSpamNumberNotFound(err error) bool {
	return errors.Is(err, ErrSpamNumberNotFound)
}

func IsSpamNumberTooLong(err error) bool {
	return errors.Is(err, ErrSpamNumberTooLong)
}

func IsCallEventRequired(err error) bool {
	return errors.Is(err, ErrCallEventRequired)
}

func IsUnsupportedExportFormat(err error) bool {
	return errors.Is(err, ErrUnsupportedExportFormat)
}

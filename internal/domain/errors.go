package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrDayNotFound      = errors.New("day not found")
	ErrWeekNotFound     = errors.New("week not found")
	ErrInvalidPlacement = errors.New("invalid placement: a scheduled task needs both a day and a swimlane")
)

// ValidationError reports a single malformed field. It is returned before any
// state is touched, so a rejected operation never leaves partial changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

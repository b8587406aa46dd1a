package service

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/weekplan/internal/repository"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeekExists         = errors.New("a week already starts on that date")
)

// notFoundAs replaces a repository not-found with the domain sentinel.
func notFoundAs(err error, target error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", target, id)
	}
	return err
}

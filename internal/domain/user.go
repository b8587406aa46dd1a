package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinPasswordLen = 8
	MaxNameLen     = 100
)

// User owns weeks and tasks on the backend.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthSession is a bearer session. Only the hash of the token is stored.
type AuthSession struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s AuthSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Registration is the input for creating an account.
type Registration struct {
	Email    string
	Password string
	Name     string
}

func (r Registration) Normalize() Registration {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	return r
}

func (r Registration) Validate() error {
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if utf8.RuneCountInString(r.Password) < MinPasswordLen {
		return invalid("password", "must be at least %d characters", MinPasswordLen)
	}
	if utf8.RuneCountInString(r.Name) > MaxNameLen {
		return invalid("name", "must be at most %d characters", MaxNameLen)
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return invalid("email", "must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("email", "%q is not a valid address", email)
	}
	return nil
}

// ProfilePatch updates the editable profile fields. Nil leaves a field untouched.
type ProfilePatch struct {
	Email *string
	Name  *string
}

func (p ProfilePatch) Normalize() ProfilePatch {
	if p.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*p.Email))
		p.Email = &e
	}
	if p.Name != nil {
		n := strings.TrimSpace(*p.Name)
		p.Name = &n
	}
	return p
}

func (p ProfilePatch) Validate() error {
	if p.Email != nil {
		if err := ValidateEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Name != nil && utf8.RuneCountInString(*p.Name) > MaxNameLen {
		return invalid("name", "must be at most %d characters", MaxNameLen)
	}
	return nil
}

func (p ProfilePatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
}

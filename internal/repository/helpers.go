package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
)

const timeLayout = time.RFC3339

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString returns nil (SQL NULL) for a nil pointer, otherwise the formatted UTC time.
func nullableTimeToString(t *time.Time, layout string) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(layout)
}

func nullableIntToValue(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// nullableString stores the empty string as NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

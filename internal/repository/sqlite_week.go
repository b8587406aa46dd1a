package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/weekplan/internal/db"
	"github.com/alexanderramin/weekplan/internal/domain"
)

const weekColumns = `id, week_number, start_date, end_date, theme`

// SQLiteWeekRepo implements WeekRepo. A week and its days are written together;
// callers wrap Create in a unit of work.
type SQLiteWeekRepo struct {
	db db.DBTX
}

func NewSQLiteWeekRepo(db db.DBTX) *SQLiteWeekRepo {
	return &SQLiteWeekRepo{db: db}
}

func (r *SQLiteWeekRepo) Create(ctx context.Context, userID string, w *domain.Week) error {
	now := nowUTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO weeks (id, user_id, week_number, start_date, end_date, theme, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, userID, w.WeekNumber, formatDate(w.Start), formatDate(w.End), w.Theme, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("week starting %s: %w", formatDate(w.Start), ErrConflict)
		}
		return fmt.Errorf("inserting week: %w", err)
	}
	for i, d := range w.Days {
		_, err := r.db.ExecContext(ctx, `INSERT INTO days (id, week_id, date, label, theme, focus_metric, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.ID, w.ID, d.Date, d.Label, d.Theme, d.FocusMetric, i)
		if err != nil {
			return fmt.Errorf("inserting day %s: %w", d.Date, err)
		}
	}
	return nil
}

func (r *SQLiteWeekRepo) GetByID(ctx context.Context, userID, id string) (*domain.Week, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+weekColumns+` FROM weeks WHERE id = ? AND user_id = ?`, id, userID)
	return r.getWithDays(ctx, row)
}

// GetContaining returns the week whose date span includes date.
func (r *SQLiteWeekRepo) GetContaining(ctx context.Context, userID string, date time.Time) (*domain.Week, error) {
	d := formatDate(date)
	row := r.db.QueryRowContext(ctx, `SELECT `+weekColumns+` FROM weeks
		WHERE user_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date DESC LIMIT 1`, userID, d, d)
	return r.getWithDays(ctx, row)
}

// List returns the user's weeks, most recent first.
func (r *SQLiteWeekRepo) List(ctx context.Context, userID string) ([]domain.Week, error) {
	return r.list(ctx, `SELECT `+weekColumns+` FROM weeks WHERE user_id = ? ORDER BY start_date DESC`, userID)
}

// ListInRange returns weeks overlapping [start, end], earliest first.
func (r *SQLiteWeekRepo) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.Week, error) {
	return r.list(ctx, `SELECT `+weekColumns+` FROM weeks
		WHERE user_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date`, userID, formatDate(end), formatDate(start))
}

func (r *SQLiteWeekRepo) Update(ctx context.Context, userID string, w *domain.Week) error {
	res, err := r.db.ExecContext(ctx, `UPDATE weeks SET theme = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		w.Theme, nowUTC(), w.ID, userID)
	if err != nil {
		return fmt.Errorf("updating week: %w", err)
	}
	return requireAffected(res, "week")
}

func (r *SQLiteWeekRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weeks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting week: %w", err)
	}
	return requireAffected(res, "week")
}

func (r *SQLiteWeekRepo) GetDay(ctx context.Context, userID, dayID string) (*domain.Day, string, error) {
	var d domain.Day
	var weekID string
	err := r.db.QueryRowContext(ctx, `SELECT d.id, d.date, d.label, d.theme, d.focus_metric, d.week_id
		FROM days d JOIN weeks w ON d.week_id = w.id
		WHERE d.id = ? AND w.user_id = ?`, dayID, userID).
		Scan(&d.ID, &d.Date, &d.Label, &d.Theme, &d.FocusMetric, &weekID)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("day: %w", ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("scanning day: %w", err)
	}
	return &d, weekID, nil
}

func (r *SQLiteWeekRepo) UpdateDay(ctx context.Context, userID string, d *domain.Day) error {
	res, err := r.db.ExecContext(ctx, `UPDATE days SET theme = ?, focus_metric = ?
		WHERE id = ? AND week_id IN (SELECT id FROM weeks WHERE user_id = ?)`,
		d.Theme, d.FocusMetric, d.ID, userID)
	if err != nil {
		return fmt.Errorf("updating day: %w", err)
	}
	return requireAffected(res, "day")
}

func (r *SQLiteWeekRepo) DayOwner(ctx context.Context, dayID string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT w.user_id FROM days d JOIN weeks w ON d.week_id = w.id
		WHERE d.id = ?`, dayID).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("day: %w", ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("looking up day owner: %w", err)
	}
	return userID, nil
}

func (r *SQLiteWeekRepo) getWithDays(ctx context.Context, row *sql.Row) (*domain.Week, error) {
	w, err := scanWeek(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("week: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning week: %w", err)
	}
	if w.Days, err = r.days(ctx, w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *SQLiteWeekRepo) list(ctx context.Context, query string, args ...any) ([]domain.Week, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing weeks: %w", err)
	}
	weeks := []domain.Week{}
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning week: %w", err)
		}
		weeks = append(weeks, *w)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Close before loading days: an in-memory database has one connection.
	rows.Close()

	for i := range weeks {
		if weeks[i].Days, err = r.days(ctx, weeks[i].ID); err != nil {
			return nil, err
		}
	}
	return weeks, nil
}

func (r *SQLiteWeekRepo) days(ctx context.Context, weekID string) ([]domain.Day, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, date, label, theme, focus_metric
		FROM days WHERE week_id = ? ORDER BY position`, weekID)
	if err != nil {
		return nil, fmt.Errorf("listing days: %w", err)
	}
	defer rows.Close()

	days := make([]domain.Day, 0, domain.DaysPerWeek)
	for rows.Next() {
		var d domain.Day
		if err := rows.Scan(&d.ID, &d.Date, &d.Label, &d.Theme, &d.FocusMetric); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func scanWeek(row rowScanner) (*domain.Week, error) {
	var w domain.Week
	var start, end string
	if err := row.Scan(&w.ID, &w.WeekNumber, &start, &end, &w.Theme); err != nil {
		return nil, err
	}
	var err error
	if w.Start, err = domain.ParseDate(start); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if w.End, err = domain.ParseDate(end); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	return &w, nil
}

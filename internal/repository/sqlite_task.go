package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/db"
	"github.com/alexanderramin/weekplan/internal/domain"
)

const taskColumns = `id, title, category, energy, status, duration_minutes, position,
		day_id, swimlane, target_occurrences, notes, completed_at`

const taskColumnsAliased = `t.id, t.title, t.category, t.energy, t.status, t.duration_minutes, t.position,
		t.day_id, t.swimlane, t.target_occurrences, t.notes, t.completed_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, userID string, t *domain.Task) error {
	now := nowUTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO tasks (id, user_id, title, category, energy, status,
		duration_minutes, position, day_id, swimlane, target_occurrences, notes, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		userID,
		t.Title,
		string(t.Category),
		string(t.Energy),
		string(t.Status),
		t.DurationMinutes,
		t.Order,
		nullableString(t.DayID),
		nullableString(string(t.Swimlane)),
		nullableIntToValue(t.TargetOccurrencesPerWeek),
		t.Notes,
		nullableTimeToString(t.CompletedAt, timeLayout),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, userID, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return t, nil
}

// List returns the user's tasks ordered by group and position. Unassigned
// takes precedence over DayID.
func (r *SQLiteTaskRepo) List(ctx context.Context, userID string, filter app.TaskFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	args := []any{userID}
	switch {
	case filter.Unassigned:
		query += ` AND day_id IS NULL`
	case filter.DayID != "":
		query += ` AND day_id = ?`
		args = append(args, filter.DayID)
	}
	if filter.Swimlane != "" {
		query += ` AND swimlane = ?`
		args = append(args, string(filter.Swimlane))
	}
	query += ` ORDER BY day_id IS NOT NULL, day_id, swimlane, position, created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListByWeek(ctx context.Context, userID, weekID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumnsAliased+`
		FROM tasks t
		JOIN days d ON t.day_id = d.id
		WHERE t.user_id = ? AND d.week_id = ?
		ORDER BY d.position, t.swimlane, t.position`, userID, weekID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by week: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, userID string, t *domain.Task) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET title = ?, category = ?, energy = ?, status = ?,
		duration_minutes = ?, position = ?, day_id = ?, swimlane = ?, target_occurrences = ?,
		notes = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		t.Title,
		string(t.Category),
		string(t.Energy),
		string(t.Status),
		t.DurationMinutes,
		t.Order,
		nullableString(t.DayID),
		nullableString(string(t.Swimlane)),
		nullableIntToValue(t.TargetOccurrencesPerWeek),
		t.Notes,
		nullableTimeToString(t.CompletedAt, timeLayout),
		nowUTC(),
		t.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task")
}

func (r *SQLiteTaskRepo) CountInGroup(ctx context.Context, userID string, g Group) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks
		WHERE user_id = ? AND day_id IS ? AND swimlane IS ?`,
		userID, nullableString(g.DayID), nullableString(string(g.Swimlane))).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting tasks in group: %w", err)
	}
	return n, nil
}

func (r *SQLiteTaskRepo) ShiftGroup(ctx context.Context, userID string, g Group, from, delta int, excludeID string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET position = position + ?, updated_at = ?
		WHERE user_id = ? AND day_id IS ? AND swimlane IS ? AND position >= ? AND id != ?`,
		delta, nowUTC(), userID, nullableString(g.DayID), nullableString(string(g.Swimlane)), from, excludeID)
	if err != nil {
		return fmt.Errorf("shifting task positions: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var category, energy, status string
	var dayID, swimlane, completedAt sql.NullString
	var occurrences sql.NullInt64

	err := row.Scan(
		&t.ID, &t.Title, &category, &energy, &status, &t.DurationMinutes, &t.Order,
		&dayID, &swimlane, &occurrences, &t.Notes, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Category = domain.Category(category)
	t.Energy = domain.Energy(energy)
	t.Status = domain.Status(status)
	t.DayID = dayID.String
	t.Swimlane = domain.SwimlaneKey(swimlane.String)
	t.TargetOccurrencesPerWeek = nullableInt(occurrences)
	t.CompletedAt = parseNullableTime(completedAt, timeLayout)
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}

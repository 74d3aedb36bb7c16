package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"streaks/internal/date"
	"streaks/internal/model"
)

const taskColumns = `id, name, color, time, days, created_on, created_at, updated_at`

// GetTasks returns all tasks, timed tasks first in time order, then the
// rest alphabetically.
func (db *DB) GetTasks() ([]model.Task, error) {
	rows, err := db.Query(`
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY
			CASE WHEN time = '' THEN 1 ELSE 0 END,
			time,
			name COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// GetTask returns a single task by ID, or nil when it does not exist.
func (db *DB) GetTask(id string) (*model.Task, error) {
	row := db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

// GetTasksForWeekday returns the tasks scheduled on the given weekday.
func (db *DB) GetTasksForWeekday(wd time.Weekday) ([]model.Task, error) {
	tasks, err := db.GetTasks()
	if err != nil {
		return nil, err
	}
	scheduled := tasks[:0]
	for _, t := range tasks {
		if t.ScheduledOn(wd) {
			scheduled = append(scheduled, t)
		}
	}
	return scheduled, nil
}

// SearchTasks returns tasks whose name contains the query, case-insensitively.
func (db *DB) SearchTasks(query string) ([]model.Task, error) {
	rows, err := db.Query(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE name LIKE '%' || ? || '%' COLLATE NOCASE
		ORDER BY name COLLATE NOCASE
	`, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// CreateTask inserts a new task. ID and timestamps are assigned here; the
// creation date defaults to createdOn as given so backfilled imports keep
// their original start day.
func (db *DB) CreateTask(name, color, timeOfDay string, days []string, createdOn date.Date) (*model.Task, error) {
	id := uuid.New().String()
	now := time.Now()

	model.SortDays(days)
	_, err := db.Exec(`
		INSERT INTO tasks (id, name, color, time, days, created_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, name, color, timeOfDay, strings.Join(days, ","), createdOn, now, now)
	if err != nil {
		return nil, err
	}

	return &model.Task{
		ID:        id,
		Name:      name,
		Color:     color,
		Time:      timeOfDay,
		Days:      days,
		CreatedOn: createdOn,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateTask rewrites the task's editable fields. The creation date is
// immutable: streak history is anchored to it.
func (db *DB) UpdateTask(id, name, color, timeOfDay string, days []string) error {
	model.SortDays(days)
	_, err := db.Exec(`
		UPDATE tasks SET name = ?, color = ?, time = ?, days = ?, updated_at = ?
		WHERE id = ?
	`, name, color, timeOfDay, strings.Join(days, ","), time.Now(), id)
	return err
}

// RestoreTask reinserts a previously deleted task under its original ID,
// along with its completion history. Used by undo.
func (db *DB) RestoreTask(t *model.Task, completions []model.Completion) error {
	return db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO tasks (id, name, color, time, days, created_on, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Name, t.Color, t.Time, strings.Join(t.Days, ","), t.CreatedOn, t.CreatedAt, time.Now())
		if err != nil {
			return err
		}
		for _, c := range completions {
			_, err := tx.Exec(`
				INSERT OR IGNORE INTO task_completions (id, task_id, completion_date, created_at)
				VALUES (?, ?, ?, ?)
			`, uuid.New().String(), t.ID, c.Date, c.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteTask deletes a task. Completions and scheduled notifications
// cascade.
func (db *DB) DeleteTask(id string) error {
	_, err := db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(s scanner) (*model.Task, error) {
	var t model.Task
	var days string

	err := s.Scan(&t.ID, &t.Name, &t.Color, &t.Time, &days, &t.CreatedOn, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if days != "" {
		t.Days = strings.Split(days, ",")
	}
	return &t, nil
}

package db

import (
	"time"

	"github.com/google/uuid"

	"streaks/internal/date"
	"streaks/internal/model"
)

// MarkComplete records a completion for the task on the given day.
// Recording the same (task, day) twice is a no-op.
func (db *DB) MarkComplete(taskID string, day date.Date) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO task_completions (id, task_id, completion_date, created_at)
		VALUES (?, ?, ?, ?)
	`, uuid.New().String(), taskID, day, time.Now())
	return err
}

// MarkIncomplete removes the task's completion for the given day, if any.
func (db *DB) MarkIncomplete(taskID string, day date.Date) error {
	_, err := db.Exec(`
		DELETE FROM task_completions WHERE task_id = ? AND completion_date = ?
	`, taskID, day)
	return err
}

// ToggleCompletion flips the task's completion state for the given day and
// reports the new state.
func (db *DB) ToggleCompletion(taskID string, day date.Date) (bool, error) {
	done, err := db.IsCompleted(taskID, day)
	if err != nil {
		return false, err
	}
	if done {
		return false, db.MarkIncomplete(taskID, day)
	}
	return true, db.MarkComplete(taskID, day)
}

// IsCompleted reports whether the task has a completion on the given day.
func (db *DB) IsCompleted(taskID string, day date.Date) (bool, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM task_completions WHERE task_id = ? AND completion_date = ?
	`, taskID, day).Scan(&n)
	return n > 0, err
}

// GetCompletionsForTask returns the task's completions between from and to,
// inclusive, oldest first.
func (db *DB) GetCompletionsForTask(taskID string, from, to date.Date) ([]model.Completion, error) {
	rows, err := db.Query(`
		SELECT id, task_id, completion_date, created_at
		FROM task_completions
		WHERE task_id = ? AND completion_date BETWEEN ? AND ?
		ORDER BY completion_date
	`, taskID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []model.Completion
	for rows.Next() {
		var c model.Completion
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Date, &c.CreatedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// GetCompletionsByDate groups all completions between from and to by day,
// as completed task ids per date.
func (db *DB) GetCompletionsByDate(from, to date.Date) (map[date.Date][]string, error) {
	rows, err := db.Query(`
		SELECT task_id, completion_date
		FROM task_completions
		WHERE completion_date BETWEEN ? AND ?
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDate := make(map[date.Date][]string)
	for rows.Next() {
		var taskID string
		var d date.Date
		if err := rows.Scan(&taskID, &d); err != nil {
			return nil, err
		}
		byDate[d] = append(byDate[d], taskID)
	}
	return byDate, rows.Err()
}

package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"streaks/internal/model"
)

// ReplaceSchedule atomically swaps the task's unsent notifications for the
// given fire times. Already-sent rows are kept for the cleanup pass.
func (db *DB) ReplaceSchedule(taskID string, fireTimes []time.Time) error {
	return db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`
			DELETE FROM scheduled_notifications WHERE task_id = ? AND sent = 0
		`, taskID); err != nil {
			return err
		}
		now := time.Now()
		for _, at := range fireTimes {
			if _, err := tx.Exec(`
				INSERT INTO scheduled_notifications (id, task_id, fire_at, sent, created_at)
				VALUES (?, ?, ?, 0, ?)
			`, uuid.New().String(), taskID, at, now); err != nil {
				return err
			}
		}
		return nil
	})
}

// DueNotifications returns unsent notifications whose fire time is at or
// before now, oldest first.
func (db *DB) DueNotifications(now time.Time) ([]model.ScheduledNotification, error) {
	rows, err := db.Query(`
		SELECT id, task_id, fire_at, sent, created_at
		FROM scheduled_notifications
		WHERE sent = 0 AND fire_at <= ?
		ORDER BY fire_at
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []model.ScheduledNotification
	for rows.Next() {
		var n model.ScheduledNotification
		if err := rows.Scan(&n.ID, &n.TaskID, &n.FireAt, &n.Sent, &n.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, n)
	}
	return pending, rows.Err()
}

// MarkNotificationSent flags a notification as delivered.
func (db *DB) MarkNotificationSent(id string) error {
	_, err := db.Exec(`UPDATE scheduled_notifications SET sent = 1 WHERE id = ?`, id)
	return err
}

// PruneNotifications deletes sent notifications that fired before cutoff.
func (db *DB) PruneNotifications(cutoff time.Time) error {
	_, err := db.Exec(`
		DELETE FROM scheduled_notifications WHERE sent = 1 AND fire_at < ?
	`, cutoff)
	return err
}

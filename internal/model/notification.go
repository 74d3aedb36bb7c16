package model

import "time"

// ScheduledNotification is one planned reminder delivery for a task.
type ScheduledNotification struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	FireAt    time.Time `json:"fire_at"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"created_at"`
}

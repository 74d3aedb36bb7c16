// Package reports provides daily and weekly report generation for the
// streaks app. Reports aggregate task schedules, completions and streak
// statistics.
package reports

import (
	"time"

	"streaks/internal/date"
	"streaks/internal/streak"
)

// DailyReport contains aggregated data for a single day.
type DailyReport struct {
	Date        date.Date    `json:"date"`
	Tasks       []TaskStatus `json:"tasks"`
	DueCount    int          `json:"due_count"`
	DoneCount   int          `json:"done_count"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// TaskStatus is one task's standing on the report day.
type TaskStatus struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Time         string       `json:"time,omitempty"`
	Done         bool         `json:"done"`
	StreakBroken bool         `json:"streak_broken"`
	Stats        streak.Stats `json:"stats"`
}

// WeeklyReport contains aggregated data for a seven-day window.
type WeeklyReport struct {
	StartDate      date.Date         `json:"start_date"`
	EndDate        date.Date         `json:"end_date"`
	Consistency    int               `json:"consistency_percentage"`
	ActiveDays     int               `json:"active_days"`
	Completions    int               `json:"total_completions"`
	DailyBreakdown []DayBreakdown    `json:"daily_breakdown"`
	TaskStreaks    []TaskStreakEntry `json:"task_streaks"`
	GeneratedAt    time.Time         `json:"generated_at"`
}

// DayBreakdown summarizes one day of the week.
type DayBreakdown struct {
	Date      date.Date `json:"date"`
	DayOfWeek string    `json:"day_of_week"`
	Due       int       `json:"due"`
	Done      int       `json:"done"`
	Missed    int       `json:"missed"`
	Broken    int       `json:"broken"`
}

// TaskStreakEntry pairs a task with its streak numbers for the report.
type TaskStreakEntry struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Stats streak.Stats `json:"stats"`
}

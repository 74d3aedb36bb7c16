// Package model defines the core data types shared across the app.
package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"streaks/internal/date"
)

// Weekday names accepted in task schedules, in schedule display order.
var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

var weekdayShort = map[string]time.Weekday{
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
	"sun": time.Sunday,
}

// Task is a recurring habit tied to specific weekdays and a time of day.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Time      string    `json:"time,omitempty"` // HH:MM, informational and for reminders
	Days      []string  `json:"days"`           // weekday names: "monday".."sunday"
	CreatedOn date.Date `json:"created_on"`     // first date the task counts as due
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completion records that a task was done on a calendar date.
// At most one completion exists per (task, date) pair.
type Completion struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Date      date.Date `json:"completion_date"`
	CreatedAt time.Time `json:"created_at"`
}

// ScheduledOn reports whether the task's schedule includes the given weekday.
func (t *Task) ScheduledOn(wd time.Weekday) bool {
	for _, day := range t.Days {
		if parsed, ok := weekdayNames[day]; ok && parsed == wd {
			return true
		}
	}
	return false
}

// DueOn reports whether d is a due date for the task: its weekday is
// scheduled and d is not before the task's creation date.
func (t *Task) DueOn(d date.Date) bool {
	return !d.Before(t.CreatedOn) && t.ScheduledOn(d.Weekday())
}

// ParseWeekday accepts a full weekday name ("monday") or a three-letter
// abbreviation ("mon"), case-insensitively, and returns the canonical name.
func ParseWeekday(s string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if _, ok := weekdayNames[key]; ok {
		return key, nil
	}
	if wd, ok := weekdayShort[key]; ok {
		return WeekdayName(wd), nil
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// ParseDays parses a comma-separated weekday list into canonical names,
// deduplicated and sorted Monday first. The shorthands "daily" and
// "everyday" expand to the full week.
func ParseDays(s string) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "everyday":
		return []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}, nil
	}

	seen := make(map[string]bool)
	var days []string
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		day, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	SortDays(days)
	return days, nil
}

// ValidateDays checks that every entry is a canonical weekday name.
func ValidateDays(days []string) error {
	for _, day := range days {
		if _, ok := weekdayNames[day]; !ok {
			return fmt.Errorf("unknown weekday %q", day)
		}
	}
	return nil
}

// SortDays orders weekday names Monday first, in place.
func SortDays(days []string) {
	sort.Slice(days, func(i, j int) bool {
		return weekdayOrder(days[i]) < weekdayOrder(days[j])
	})
}

func weekdayOrder(name string) int {
	wd, ok := weekdayNames[name]
	if !ok {
		return 8
	}
	// Monday=0 .. Sunday=6
	return (int(wd) + 6) % 7
}

// WeekdayName returns the canonical schedule name for a time.Weekday.
func WeekdayName(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// DayAbbreviations renders a schedule as compact initials, e.g. "MWF".
func DayAbbreviations(days []string) string {
	sorted := make([]string, len(days))
	copy(sorted, days)
	SortDays(sorted)

	var b strings.Builder
	for _, day := range sorted {
		if wd, ok := weekdayNames[day]; ok {
			b.WriteString(wd.String()[:1])
		} else {
			b.WriteString("?")
		}
	}
	return b.String()
}

// ValidateTime checks an HH:MM clock string.
func ValidateTime(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return nil
}

package streak

import (
	"streaks/internal/date"
	"streaks/internal/model"
)

// Stats are the derived streak numbers for a single task.
type Stats struct {
	CurrentStreak   int  `json:"current_streak"`
	PreviousStreak  int  `json:"previous_streak"`
	LongestStreak   int  `json:"longest_streak"`
	CompletionCount int  `json:"completion_count"`
	BrokenToday     bool `json:"is_streak_broken_today"`
}

// TaskStats computes the full Stats for a task as of today. The completion
// count covers the default 30-day window.
func TaskStats(task *model.Task, ix *Index, today date.Date) Stats {
	return Stats{
		CurrentStreak:   CurrentStreak(task, ix, today),
		PreviousStreak:  PreviousStreak(task, ix, today),
		LongestStreak:   LongestStreak(task, ix, today),
		CompletionCount: CompletionCount(task, ix, LastNDays(today, DefaultWindowDays)),
		BrokenToday:     IsStreakBrokenOnDay(task, today, ix),
	}
}

// DayEntry classifies one calendar day of a task set's history. The three
// lists are disjoint: a task appears in StreakBroken only on the first due
// date that interrupts a run of two or more, in Missed on any other due
// date without a completion, and in Completed when it was done.
type DayEntry struct {
	Date         date.Date    `json:"date"`
	Completed    []model.Task `json:"completed_tasks"`
	Missed       []model.Task `json:"missed_tasks"`
	StreakBroken []model.Task `json:"streak_broken_tasks"`
}

// DailyHistory builds one entry per date in w, newest first. Tasks not due
// on a given date are omitted from that date's entry entirely.
func DailyHistory(tasks []model.Task, ix *Index, w Window) []DayEntry {
	entries := make([]DayEntry, 0, w.Days())
	for d := w.End; !d.Before(w.Start); d = d.AddDays(-1) {
		entry := DayEntry{Date: d}
		for i := range tasks {
			task := tasks[i]
			if !task.DueOn(d) {
				continue
			}
			switch {
			case ix.Completed(task.ID, d):
				entry.Completed = append(entry.Completed, task)
			case IsStreakBrokenOnDay(&task, d, ix):
				entry.StreakBroken = append(entry.StreakBroken, task)
			default:
				entry.Missed = append(entry.Missed, task)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// Summary aggregates a whole task set over a window.
type Summary struct {
	TotalTasks       int              `json:"total_tasks"`
	ActiveDays       int              `json:"active_days"`
	TotalCompletions int              `json:"total_completions"`
	Consistency      int              `json:"consistency_percentage"`
	TaskStreaks      map[string]Stats `json:"task_streaks"`
}

// UserStats computes the Summary for a task set as of today, over the
// trailing window of the given length in days.
func UserStats(tasks []model.Task, ix *Index, today date.Date, days int) Summary {
	w := LastNDays(today, days)
	perTask := make(map[string]Stats, len(tasks))
	for i := range tasks {
		perTask[tasks[i].ID] = TaskStats(&tasks[i], ix, today)
	}
	return Summary{
		TotalTasks:       len(tasks),
		ActiveDays:       ix.ActiveDays(w),
		TotalCompletions: ix.TotalCompletions(w),
		Consistency:      ConsistencyPercentage(tasks, ix, w),
		TaskStreaks:      perTask,
	}
}

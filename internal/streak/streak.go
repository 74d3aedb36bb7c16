// Package streak derives streak and consistency statistics for
// weekday-scheduled tasks from their completion history.
//
// Every function here is pure: inputs are a task (schedule + creation date),
// a completion index, and an explicit reference day. Nothing reads the clock,
// so results are reproducible and the package is safe to call concurrently.
//
// All streak logic operates on "due dates" only: calendar days whose weekday
// is in the task's schedule, on or after the task's creation date. Days the
// task is not scheduled never extend nor break a streak.
package streak

import (
	"errors"
	"fmt"
	"math"

	"streaks/internal/date"
	"streaks/internal/model"
)

const (
	// DefaultWindowDays is the lookback used for completion counts,
	// consistency and daily history.
	DefaultWindowDays = 30

	// LongestLookbackDays bounds the longest-streak scan.
	LongestLookbackDays = 365
)

// ErrInvalidWindow is returned when a window ends before it starts.
var ErrInvalidWindow = errors.New("window end precedes start")

// Window is an inclusive range of calendar dates.
type Window struct {
	Start date.Date
	End   date.Date
}

// NewWindow validates and returns the window [start, end].
func NewWindow(start, end date.Date) (Window, error) {
	if end.Before(start) {
		return Window{}, fmt.Errorf("%w: %s > %s", ErrInvalidWindow, start, end)
	}
	return Window{Start: start, End: end}, nil
}

// LastNDays returns the n-day window ending at today, inclusive.
func LastNDays(today date.Date, n int) Window {
	if n < 1 {
		n = 1
	}
	return Window{Start: today.AddDays(-(n - 1)), End: today}
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d date.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the window length in days.
func (w Window) Days() int {
	return w.Start.DaysUntil(w.End) + 1
}

// Index answers "was task T completed on day D" in O(1). Build one from
// whichever shape the caller has - a flat completion list or a date-keyed
// map of task ids - and share it across all computations for a task set.
type Index struct {
	byTask map[string]map[date.Date]struct{}
}

// NewIndex builds an index from completion records. Duplicate records for
// the same (task, date) pair collapse to one.
func NewIndex(completions []model.Completion) *Index {
	ix := &Index{byTask: make(map[string]map[date.Date]struct{}, len(completions))}
	for _, c := range completions {
		ix.add(c.TaskID, c.Date)
	}
	return ix
}

// NewIndexFromDates builds an index from a date -> completed-task-ids map,
// the shape produced by grouped persistence queries.
func NewIndexFromDates(byDate map[date.Date][]string) *Index {
	ix := &Index{byTask: make(map[string]map[date.Date]struct{})}
	for d, ids := range byDate {
		for _, id := range ids {
			ix.add(id, d)
		}
	}
	return ix
}

func (ix *Index) add(taskID string, d date.Date) {
	dates, ok := ix.byTask[taskID]
	if !ok {
		dates = make(map[date.Date]struct{})
		ix.byTask[taskID] = dates
	}
	dates[d] = struct{}{}
}

// Completed reports whether the task has a completion record for d.
func (ix *Index) Completed(taskID string, d date.Date) bool {
	_, ok := ix.byTask[taskID][d]
	return ok
}

// CompletionDatesIn returns the task's completion dates inside w, unordered.
func (ix *Index) CompletionDatesIn(taskID string, w Window) []date.Date {
	var dates []date.Date
	for d := range ix.byTask[taskID] {
		if w.Contains(d) {
			dates = append(dates, d)
		}
	}
	return dates
}

// ActiveDays counts the distinct dates inside w with at least one
// completion, across all tasks in the index.
func (ix *Index) ActiveDays(w Window) int {
	seen := make(map[date.Date]struct{})
	for _, dates := range ix.byTask {
		for d := range dates {
			if w.Contains(d) {
				seen[d] = struct{}{}
			}
		}
	}
	return len(seen)
}

// TotalCompletions counts all completion records inside w.
func (ix *Index) TotalCompletions(w Window) int {
	n := 0
	for _, dates := range ix.byTask {
		for d := range dates {
			if w.Contains(d) {
				n++
			}
		}
	}
	return n
}

// DueDates returns the task's due dates inside w in ascending order:
// every date whose weekday is scheduled and which is on or after the
// task's creation date. Empty schedules yield no due dates.
func DueDates(task *model.Task, w Window) []date.Date {
	start := w.Start
	if start.Before(task.CreatedOn) {
		start = task.CreatedOn
	}

	var due []date.Date
	for d := start; !d.After(w.End); d = d.AddDays(1) {
		if task.ScheduledOn(d.Weekday()) {
			due = append(due, d)
		}
	}
	return due
}

// CurrentStreak counts consecutive completed due dates walking backward
// from today, inclusive. A due today without a completion means the streak
// is 0 - today is evaluated like any other due date.
func CurrentStreak(task *model.Task, ix *Index, today date.Date) int {
	streak := 0
	for d := today; !d.Before(task.CreatedOn); d = d.AddDays(-1) {
		if !task.ScheduledOn(d.Weekday()) {
			continue
		}
		if !ix.Completed(task.ID, d) {
			break
		}
		streak++
	}
	return streak
}

// PreviousStreak counts the completed run immediately before the current
// streak's terminating gap. Walking backward from today there are two
// phases: first consume the current run (possibly empty) up to the first
// uncompleted due date, then count completions until the next gap. A task
// completed on every due date since creation has no previous streak: 0.
func PreviousStreak(task *model.Task, ix *Index, today date.Date) int {
	foundGap := false
	previous := 0
	for d := today; !d.Before(task.CreatedOn); d = d.AddDays(-1) {
		if !task.ScheduledOn(d.Weekday()) {
			continue
		}
		completed := ix.Completed(task.ID, d)
		if !foundGap {
			if !completed {
				foundGap = true
			}
			continue
		}
		if !completed {
			break
		}
		previous++
	}
	return previous
}

// LongestStreak scans due dates oldest to newest over the last
// LongestLookbackDays and returns the longest consecutive completed run.
// The current run is always counted in full, so a streak that started
// before the lookback window never reports shorter than CurrentStreak.
func LongestStreak(task *model.Task, ix *Index, today date.Date) int {
	longest, run := 0, 0
	for _, d := range DueDates(task, LastNDays(today, LongestLookbackDays)) {
		if ix.Completed(task.ID, d) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if current := CurrentStreak(task, ix, today); current > longest {
		longest = current
	}
	return longest
}

// CompletionCount counts the task's completion records inside w, clipped to
// the task's creation date. Deliberately lenient: a completion recorded on a
// non-scheduled weekday still counts.
func CompletionCount(task *model.Task, ix *Index, w Window) int {
	start := w.Start
	if start.Before(task.CreatedOn) {
		start = task.CreatedOn
	}
	if w.End.Before(start) {
		return 0
	}
	n := 0
	for d := range ix.byTask[task.ID] {
		if !d.Before(start) && !d.After(w.End) {
			n++
		}
	}
	return n
}

// IsStreakBrokenOnDay reports whether day is the first due date to interrupt
// a completed run of length >= 2. A gap after a single completion, or a gap
// following another gap, is a plain miss rather than a break.
func IsStreakBrokenOnDay(task *model.Task, day date.Date, ix *Index) bool {
	if !task.DueOn(day) || ix.Completed(task.ID, day) {
		return false
	}

	prev, ok := previousDueDate(task, day)
	if !ok || !ix.Completed(task.ID, prev) {
		// No streak existed to break.
		return false
	}

	// Length of the completed run ending at prev.
	run := 0
	for d := prev; !d.Before(task.CreatedOn); d = d.AddDays(-1) {
		if !task.ScheduledOn(d.Weekday()) {
			continue
		}
		if !ix.Completed(task.ID, d) {
			break
		}
		run++
	}
	return run >= 2
}

// IsTaskMissedOnDay reports whether day is a due date without a completion
// that does not qualify as a streak break. Exactly one of missed/broken can
// hold for a given (task, day).
func IsTaskMissedOnDay(task *model.Task, day date.Date, ix *Index) bool {
	if !task.DueOn(day) || ix.Completed(task.ID, day) {
		return false
	}
	return !IsStreakBrokenOnDay(task, day, ix)
}

// previousDueDate finds the task's last due date strictly before day.
func previousDueDate(task *model.Task, day date.Date) (date.Date, bool) {
	for d := day.AddDays(-1); !d.Before(task.CreatedOn); d = d.AddDays(-1) {
		if task.ScheduledOn(d.Weekday()) {
			return d, true
		}
	}
	return date.Date{}, false
}

// ConsistencyPercentage is the share of due (task, date) obligations inside
// w that have a completion, rounded to an integer percent. With no
// obligations at all it is vacuously 100.
func ConsistencyPercentage(tasks []model.Task, ix *Index, w Window) int {
	due, completed := 0, 0
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		for i := range tasks {
			if !tasks[i].DueOn(d) {
				continue
			}
			due++
			if ix.Completed(tasks[i].ID, d) {
				completed++
			}
		}
	}
	if due == 0 {
		return 100
	}
	return int(math.Round(100 * float64(completed) / float64(due)))
}

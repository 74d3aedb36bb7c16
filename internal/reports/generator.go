// Package reports provides daily and weekly report generation for the streaks app.
package reports

import (
	"sort"
	"time"

	"streaks/internal/date"
	"streaks/internal/db"
	"streaks/internal/model"
	"streaks/internal/streak"
)

// Generator creates reports from database data.
type Generator struct {
	db  *db.DB
	now func() time.Time
}

// NewGenerator creates a new report generator.
func NewGenerator(database *db.DB) *Generator {
	return &Generator{db: database, now: time.Now}
}

// SetNowFunc overrides the clock used for report timestamps and streak
// computations. Passing nil resets it to time.Now.
func (g *Generator) SetNowFunc(now func() time.Time) {
	if now == nil {
		g.now = time.Now
		return
	}
	g.now = now
}

// GenerateDaily generates a report for a specific day. Only tasks due that
// day appear; streak statistics are computed as of that day.
func (g *Generator) GenerateDaily(day date.Date) (*DailyReport, error) {
	tasks, ix, err := g.load(day)
	if err != nil {
		return nil, err
	}

	report := &DailyReport{
		Date:        day,
		GeneratedAt: g.now(),
	}
	for i := range tasks {
		task := &tasks[i]
		if !task.DueOn(day) {
			continue
		}
		done := ix.Completed(task.ID, day)
		report.Tasks = append(report.Tasks, TaskStatus{
			ID:           task.ID,
			Name:         task.Name,
			Time:         task.Time,
			Done:         done,
			StreakBroken: streak.IsStreakBrokenOnDay(task, day, ix),
			Stats:        streak.TaskStats(task, ix, day),
		})
		report.DueCount++
		if done {
			report.DoneCount++
		}
	}
	return report, nil
}

// GenerateWeekly generates a report for the seven days ending at endDay.
func (g *Generator) GenerateWeekly(endDay date.Date) (*WeeklyReport, error) {
	tasks, ix, err := g.load(endDay)
	if err != nil {
		return nil, err
	}

	w := streak.LastNDays(endDay, 7)
	report := &WeeklyReport{
		StartDate:   w.Start,
		EndDate:     w.End,
		Consistency: streak.ConsistencyPercentage(tasks, ix, w),
		ActiveDays:  ix.ActiveDays(w),
		Completions: ix.TotalCompletions(w),
		GeneratedAt: g.now(),
	}

	for _, entry := range streak.DailyHistory(tasks, ix, w) {
		report.DailyBreakdown = append(report.DailyBreakdown, DayBreakdown{
			Date:      entry.Date,
			DayOfWeek: entry.Date.Weekday().String(),
			Due:       len(entry.Completed) + len(entry.Missed) + len(entry.StreakBroken),
			Done:      len(entry.Completed),
			Missed:    len(entry.Missed),
			Broken:    len(entry.StreakBroken),
		})
	}

	for i := range tasks {
		report.TaskStreaks = append(report.TaskStreaks, TaskStreakEntry{
			ID:    tasks[i].ID,
			Name:  tasks[i].Name,
			Stats: streak.TaskStats(&tasks[i], ix, endDay),
		})
	}
	sort.Slice(report.TaskStreaks, func(i, j int) bool {
		a, b := report.TaskStreaks[i], report.TaskStreaks[j]
		if a.Stats.CurrentStreak != b.Stats.CurrentStreak {
			return a.Stats.CurrentStreak > b.Stats.CurrentStreak
		}
		return a.Name < b.Name
	})

	return report, nil
}

// load fetches the task list and a completion index covering the
// longest-streak lookback ending at day.
func (g *Generator) load(day date.Date) ([]model.Task, *streak.Index, error) {
	tasks, err := g.db.GetTasks()
	if err != nil {
		return nil, nil, err
	}

	w := streak.LastNDays(day, streak.LongestLookbackDays)
	byDate, err := g.db.GetCompletionsByDate(w.Start, w.End)
	if err != nil {
		return nil, nil, err
	}
	return tasks, streak.NewIndexFromDates(byDate), nil
}

// Package ui provides terminal user interface components for the streaks app.
// This file contains tea.Cmd factories that wrap database operations. These
// commands run I/O asynchronously to keep the Bubble Tea event loop
// responsive. Each command returns a corresponding message type defined in
// messages.go.
package ui

import (
	"streaks/internal/date"
	"streaks/internal/db"
	"streaks/internal/streak"

	tea "github.com/charmbracelet/bubbletea"
)

// streakLookbackDays bounds the completion history loaded for streak math.
// Longest-streak already only considers the trailing year.
const streakLookbackDays = 365

// loadIndex builds the completion index for the trailing year.
func loadIndex(store *db.DB, today date.Date) (*streak.Index, error) {
	w := streak.LastNDays(today, streakLookbackDays)
	byDate, err := store.GetCompletionsByDate(w.Start, w.End)
	if err != nil {
		return nil, err
	}
	return streak.NewIndexFromDates(byDate), nil
}

// =============================================================================
// Task Commands
// =============================================================================

// loadDayCmd returns a command that loads the tasks due on the given day,
// with completion state for that day and streak stats as of today.
func loadDayCmd(store *db.DB, day, today date.Date) tea.Cmd {
	return func() tea.Msg {
		tasks, err := store.GetTasksForWeekday(day.Weekday())
		if err != nil {
			return dayLoadedMsg{day: day, err: err}
		}

		ix, err := loadIndex(store, today)
		if err != nil {
			return dayLoadedMsg{day: day, err: err}
		}

		rows := make([]taskRow, 0, len(tasks))
		for i := range tasks {
			task := tasks[i]
			if !task.DueOn(day) {
				continue
			}
			rows = append(rows, taskRow{
				Task:  task,
				Done:  ix.Completed(task.ID, day),
				Stats: streak.TaskStats(&task, ix, today),
			})
		}
		return dayLoadedMsg{day: day, rows: rows}
	}
}

// saveTaskCmd returns a command that creates a task (empty id) or updates an
// existing one. New tasks start counting from the given day.
func saveTaskCmd(store *db.DB, id, name, timeOfDay string, days []string, day date.Date) tea.Cmd {
	return func() tea.Msg {
		if id == "" {
			task, err := store.CreateTask(name, "", timeOfDay, days, day)
			return taskSavedMsg{task: task, created: true, err: err}
		}

		if err := store.UpdateTask(id, name, "", timeOfDay, days); err != nil {
			return taskSavedMsg{err: err}
		}
		task, err := store.GetTask(id)
		return taskSavedMsg{task: task, err: err}
	}
}

// toggleTaskCmd returns a command that toggles a task's completion for a day.
// Captures the previous state for undo.
func toggleTaskCmd(store *db.DB, id, name string, day date.Date) tea.Cmd {
	return func() tea.Msg {
		wasDone, err := store.IsCompleted(id, day)
		if err != nil {
			return taskToggledMsg{id: id, name: name, day: day, err: err}
		}

		done, err := store.ToggleCompletion(id, day)
		return taskToggledMsg{id: id, name: name, day: day, done: done, wasDone: wasDone, err: err}
	}
}

// deleteTaskCmd returns a command that removes a task. Captures the full
// task and its completion history for undo restoration.
func deleteTaskCmd(store *db.DB, id string, today date.Date) tea.Cmd {
	return func() tea.Msg {
		task, err := store.GetTask(id)
		if err != nil {
			return taskDeletedMsg{id: id, err: err}
		}

		msg := taskDeletedMsg{id: id, task: task}
		if task != nil {
			msg.completions, err = store.GetCompletionsForTask(id, task.CreatedOn, today)
			if err != nil {
				msg.err = err
				return msg
			}
		}

		msg.err = store.DeleteTask(id)
		return msg
	}
}

// =============================================================================
// Summary Commands
// =============================================================================

// loadSummaryCmd returns a command that computes aggregate streak statistics
// and the recent daily history.
func loadSummaryCmd(store *db.DB, today date.Date, historyDays int) tea.Cmd {
	return func() tea.Msg {
		tasks, err := store.GetTasks()
		if err != nil {
			return summaryLoadedMsg{err: err}
		}

		ix, err := loadIndex(store, today)
		if err != nil {
			return summaryLoadedMsg{err: err}
		}

		if historyDays <= 0 {
			historyDays = streak.DefaultWindowDays
		}

		return summaryLoadedMsg{
			summary: streak.UserStats(tasks, ix, today, historyDays),
			tasks:   tasks,
			history: streak.DailyHistory(tasks, ix, streak.LastNDays(today, summaryHistoryDays)),
		}
	}
}

// =============================================================================
// Undo/Redo Commands
// =============================================================================

func undoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := manager.Undo()
		return undoResultMsg{desc: desc, err: err}
	}
}

func redoCmd(manager *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := manager.Redo()
		return redoResultMsg{desc: desc, err: err}
	}
}

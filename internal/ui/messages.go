// Package ui provides terminal user interface components for the streaks app.
// This file defines message types for async I/O operations using the Bubble Tea
// command pattern. All database operations should return these messages to keep
// the event loop non-blocking.
package ui

import (
	"streaks/internal/date"
	"streaks/internal/model"
	"streaks/internal/streak"
)

// taskRow is one task as shown on the today pane: the task itself, whether
// it was completed on the viewed day, and its streak numbers as of today.
type taskRow struct {
	Task  model.Task
	Done  bool
	Stats streak.Stats
}

// =============================================================================
// Undo/Redo Messages
// =============================================================================

// undoResultMsg is sent when an undo operation completes.
type undoResultMsg struct {
	desc string
	err  error
}

// redoResultMsg is sent when a redo operation completes.
type redoResultMsg struct {
	desc string
	err  error
}

// =============================================================================
// Task Messages
// =============================================================================

// dayLoadedMsg is sent when the tasks due on a day are loaded.
type dayLoadedMsg struct {
	day  date.Date
	rows []taskRow
	err  error
}

// taskSavedMsg is sent when a task is created or edited.
type taskSavedMsg struct {
	task    *model.Task
	created bool
	err     error
}

// taskToggledMsg is sent when a task's completion for a day is toggled.
type taskToggledMsg struct {
	id      string
	name    string    // Task name for undo description
	day     date.Date // Day toggled (for correct undo after midnight)
	done    bool
	wasDone bool // Previous state for undo
	err     error
}

// taskDeletedMsg is sent when a task is removed.
type taskDeletedMsg struct {
	id          string
	task        *model.Task        // Full task for restoration on undo
	completions []model.Completion // Completion history for restoration
	err         error
}

// =============================================================================
// Summary Messages
// =============================================================================

// summaryLoadedMsg is sent when aggregate streak statistics are loaded.
type summaryLoadedMsg struct {
	summary streak.Summary
	tasks   []model.Task
	history []streak.DayEntry
	err     error
}

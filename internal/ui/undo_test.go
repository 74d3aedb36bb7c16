package ui

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"streaks/internal/date"
	"streaks/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoManagerEmpty(t *testing.T) {
	m := NewUndoManager()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	desc, err := m.Undo()
	require.NoError(t, err)
	assert.Empty(t, desc)

	desc, err = m.Redo()
	require.NoError(t, err)
	assert.Empty(t, desc)
}

func TestUndoManagerUndoRedoCycle(t *testing.T) {
	m := NewUndoManager()
	state := 0

	m.Push(&UndoableAction{
		Description: "increment",
		Undo:        func() error { state--; return nil },
		Redo:        func() error { state++; return nil },
	})
	state++

	desc, err := m.Undo()
	require.NoError(t, err)
	assert.Equal(t, "increment", desc)
	assert.Equal(t, 0, state)
	assert.True(t, m.CanRedo())

	desc, err = m.Redo()
	require.NoError(t, err)
	assert.Equal(t, "increment", desc)
	assert.Equal(t, 1, state)
	assert.True(t, m.CanUndo())
}

func TestUndoManagerFailedUndoStaysOnStack(t *testing.T) {
	m := NewUndoManager()
	m.Push(&UndoableAction{
		Description: "boom",
		Undo:        func() error { return errors.New("nope") },
	})

	_, err := m.Undo()
	require.Error(t, err)
	assert.True(t, m.CanUndo())
}

func TestUndoManagerNewActionClearsRedo(t *testing.T) {
	m := NewUndoManager()
	noop := func() error { return nil }

	m.Push(&UndoableAction{Description: "first", Undo: noop, Redo: noop})
	_, err := m.Undo()
	require.NoError(t, err)
	require.True(t, m.CanRedo())

	m.Push(&UndoableAction{Description: "second", Undo: noop})
	assert.False(t, m.CanRedo())
}

func TestUndoManagerBoundedHistory(t *testing.T) {
	m := NewUndoManager()
	noop := func() error { return nil }
	for i := 0; i < maxHistorySize+10; i++ {
		m.Push(&UndoableAction{Description: fmt.Sprintf("a%d", i), Undo: noop})
	}
	assert.Len(t, m.undoStack, maxHistorySize)
	// Oldest entries were dropped
	assert.Equal(t, "a10", m.undoStack[0].Description)
}

func TestToggleCompletionAction(t *testing.T) {
	store := createTestDB(t)
	task := seedTask(t, store, "exercise", "monday")
	day := date.New(2024, time.January, 15)

	require.NoError(t, store.MarkComplete(task.ID, day))

	// wasDone=false: the toggle completed the task, undoing uncompletes it
	action := NewToggleCompletionAction(store, task.ID, task.Name, day, false)
	require.NoError(t, action.Undo())
	done, err := store.IsCompleted(task.ID, day)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, action.Redo())
	done, err = store.IsCompleted(task.ID, day)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestDeleteTaskActionRestoresHistory(t *testing.T) {
	store := createTestDB(t)
	task := seedTask(t, store, "exercise", "monday", "wednesday")
	days := []date.Date{
		date.New(2024, time.January, 8),
		date.New(2024, time.January, 10),
	}
	var completions []model.Completion
	for _, d := range days {
		require.NoError(t, store.MarkComplete(task.ID, d))
	}
	completions, err := store.GetCompletionsForTask(task.ID, task.CreatedOn, date.New(2024, time.January, 15))
	require.NoError(t, err)
	require.Len(t, completions, 2)

	require.NoError(t, store.DeleteTask(task.ID))
	action := NewDeleteTaskAction(store, *task, completions)

	require.NoError(t, action.Undo())
	restored, err := store.GetTask(task.ID)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, task.Name, restored.Name)
	assert.Equal(t, task.CreatedOn, restored.CreatedOn)

	for _, d := range days {
		done, err := store.IsCompleted(task.ID, d)
		require.NoError(t, err)
		assert.True(t, done)
	}

	require.NoError(t, action.Redo())
	gone, err := store.GetTask(task.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "hello", truncateText("hello", 10))
	assert.Equal(t, "hell..", truncateText("hello world", 6))
	assert.Equal(t, "", truncateText("hello", 0))
}

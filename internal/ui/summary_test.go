package ui

import (
	"testing"
	"time"

	"streaks/internal/date"
	"streaks/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSummaryPane(t *testing.T, store *db.DB) *SummaryPane {
	t.Helper()
	setupTest(t)
	pane := NewSummaryPane(store, createTestStyles(), 30)
	pane.SetNowFunc(frozenClock)
	pane.SetSize(50, 30)
	return pane
}

func loadSummary(t *testing.T, p *SummaryPane) {
	t.Helper()
	msg := runCmd(t, p.LoadCmd())
	loaded, ok := msg.(summaryLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	p.Update(loaded)
}

func TestSummaryPaneEmpty(t *testing.T) {
	p := newTestSummaryPane(t, createTestDB(t))
	loadSummary(t, p)
	assert.Contains(t, p.View(), "No tasks yet")
}

func TestSummaryPaneStats(t *testing.T) {
	store := createTestDB(t)
	p := newTestSummaryPane(t, store)

	task := seedTask(t, store, "exercise", "monday", "wednesday", "friday")
	for _, day := range []int{8, 10, 12, 15} {
		require.NoError(t, store.MarkComplete(task.ID, date.New(2024, time.January, day)))
	}

	loadSummary(t, p)

	assert.Equal(t, 1, p.summary.TotalTasks)
	assert.Equal(t, 4, p.summary.TotalCompletions)
	assert.Equal(t, 4, p.summary.TaskStreaks[task.ID].CurrentStreak)

	view := p.View()
	assert.Contains(t, view, "Consistency (30d)")
	assert.Contains(t, view, "exercise")
	assert.Contains(t, view, "🔥4")
	assert.Contains(t, view, "Last 7 days")
}

func TestSummaryPaneLeaderboardOrder(t *testing.T) {
	store := createTestDB(t)
	p := newTestSummaryPane(t, store)

	slow := seedTask(t, store, "alpha", "monday")
	fast := seedTask(t, store, "zeta", "monday", "wednesday", "friday")
	for _, day := range []int{10, 12, 15} {
		require.NoError(t, store.MarkComplete(fast.ID, date.New(2024, time.January, day)))
	}
	require.NoError(t, store.MarkComplete(slow.ID, date.New(2024, time.January, 15)))

	loadSummary(t, p)

	board := p.leaderboard()
	require.Len(t, board, 2)
	// Longest current streak first, despite name order
	assert.Equal(t, fast.ID, board[0].ID)
	assert.Equal(t, slow.ID, board[1].ID)
}

func TestSummaryPaneHistoryMarks(t *testing.T) {
	store := createTestDB(t)
	p := newTestSummaryPane(t, store)

	task := seedTask(t, store, "exercise", "monday", "wednesday", "friday")
	// Completed the 10th and 12th, so today's miss breaks the run
	require.NoError(t, store.MarkComplete(task.ID, date.New(2024, time.January, 10)))
	require.NoError(t, store.MarkComplete(task.ID, date.New(2024, time.January, 12)))

	loadSummary(t, p)

	require.Len(t, p.history, summaryHistoryDays)
	// Newest first: entry 0 is today (Jan 15), the break day
	assert.Equal(t, date.New(2024, time.January, 15), p.history[0].Date)
	require.Len(t, p.history[0].StreakBroken, 1)

	view := p.View()
	assert.Contains(t, view, "✗1")
	assert.Contains(t, view, "✓1")
}

func TestSummaryPaneCursorClamped(t *testing.T) {
	store := createTestDB(t)
	p := newTestSummaryPane(t, store)
	seedTask(t, store, "alpha", "monday")
	seedTask(t, store, "beta", "monday")
	loadSummary(t, p)

	p.SetFocused(true)
	p.Update(keyPress('j'))
	assert.Equal(t, 1, p.cursor)
	p.Update(keyPress('j'))
	assert.Equal(t, 1, p.cursor)
	p.Update(keyPress('g'))
	assert.Equal(t, 0, p.cursor)
}

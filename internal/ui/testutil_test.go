package ui

import (
	"path/filepath"
	"testing"
	"time"

	"streaks/internal/config"
	"streaks/internal/date"
	"streaks/internal/db"
	"streaks/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

// frozenNow is Monday 2024-01-15 at noon; every test renders against it.
var frozenNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.Local)

func frozenClock() time.Time { return frozenNow }

// setupTest prepares the test environment for deterministic rendering.
// It disables colors to ensure consistent output across environments.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestDB opens a SQLite database in a temporary directory.
func createTestDB(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// seedTask creates a task whose streak history starts on Jan 1 2024.
func seedTask(t *testing.T, store *db.DB, name string, days ...string) *model.Task {
	t.Helper()
	task, err := store.CreateTask(name, "", "", days, date.New(2024, time.January, 1))
	require.NoError(t, err)
	return task
}

// keyPress builds a KeyMsg for a single printable character.
func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// runCmd executes a tea.Cmd synchronously and returns its message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

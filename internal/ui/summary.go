package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"streaks/internal/config"
	"streaks/internal/date"
	"streaks/internal/db"
	"streaks/internal/model"
	"streaks/internal/streak"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// summaryHistoryDays is the length of the recent-history strip on the
// summary pane.
const summaryHistoryDays = 7

// SummaryPane shows aggregate streak statistics: overall consistency, the
// per-task streak leaderboard, and a strip of recent daily history.
type SummaryPane struct {
	summary     streak.Summary
	tasks       []model.Task
	history     []streak.DayEntry
	loaded      bool
	cursor      int // position in the streak leaderboard
	focused     bool
	width       int
	height      int
	historyDays int
	store       *db.DB
	styles      *Styles
	now         func() time.Time

	keys SummaryKeyMap
}

// NewSummaryPane creates a new summary pane.
func NewSummaryPane(store *db.DB, styles *Styles, historyDays int) *SummaryPane {
	return NewSummaryPaneWithKeys(store, styles, historyDays, &config.KeysConfig{})
}

// NewSummaryPaneWithKeys creates a new summary pane with custom key bindings.
func NewSummaryPaneWithKeys(store *db.DB, styles *Styles, historyDays int, keyCfg *config.KeysConfig) *SummaryPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	if historyDays <= 0 {
		historyDays = streak.DefaultWindowDays
	}
	return &SummaryPane{
		store:       store,
		styles:      styles,
		historyDays: historyDays,
		now:         time.Now,
		keys:        NewSummaryKeyMap(keyCfg),
	}
}

// SetNowFunc overrides the clock. Intended for tests.
func (p *SummaryPane) SetNowFunc(now func() time.Time) {
	p.now = now
}

// LoadCmd returns a command that loads the summary asynchronously.
func (p *SummaryPane) LoadCmd() tea.Cmd {
	return loadSummaryCmd(p.store, date.FromTime(p.now()), p.historyDays)
}

// SetSize sets the pane dimensions.
func (p *SummaryPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *SummaryPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *SummaryPane) IsFocused() bool {
	return p.focused
}

// leaderboard returns the tasks ordered by current streak, longest first,
// ties broken by name.
func (p *SummaryPane) leaderboard() []model.Task {
	tasks := make([]model.Task, len(p.tasks))
	copy(tasks, p.tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		si := p.summary.TaskStreaks[tasks[i].ID].CurrentStreak
		sj := p.summary.TaskStreaks[tasks[j].ID].CurrentStreak
		if si != sj {
			return si > sj
		}
		return tasks[i].Name < tasks[j].Name
	})
	return tasks
}

// Update handles messages for the summary pane.
func (p *SummaryPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		if msg.err == nil {
			p.summary = msg.summary
			p.tasks = msg.tasks
			p.history = msg.history
			p.loaded = true
			if p.cursor >= len(p.tasks) {
				p.cursor = max(0, len(p.tasks)-1)
			}
		}
		return nil
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			p.cursor = max(p.cursor-1, 0)
		case tea.MouseButtonWheelDown:
			if len(p.tasks) > 0 {
				p.cursor = min(p.cursor+1, len(p.tasks)-1)
			}
		}
		return nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.tasks) > 0 {
				p.cursor = min(p.cursor+1, len(p.tasks)-1)
			}

		case key.Matches(msg, p.keys.Up):
			p.cursor = max(p.cursor-1, 0)

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.tasks) > 0 {
				p.cursor = len(p.tasks) - 1
			}
		}
	}

	return nil
}

// View renders the summary pane.
func (p *SummaryPane) View() string {
	var b strings.Builder

	title := p.styles.PaneTitleStyle.Render("📈 SUMMARY")
	b.WriteString(title)
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	sep := lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth))
	b.WriteString(sep)
	b.WriteString("\n")

	if !p.loaded {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  Loading..."))
	} else if len(p.tasks) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  No tasks yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(p.renderStats())
		b.WriteString("\n")
		b.WriteString(sep)
		b.WriteString("\n")
		b.WriteString(p.renderLeaderboard())
		b.WriteString(sep)
		b.WriteString("\n")
		b.WriteString(p.renderHistory())
	}

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}

	return style.Width(p.width).Height(p.height).Render(content)
}

// renderStats renders the aggregate numbers for the trailing window.
func (p *SummaryPane) renderStats() string {
	var b strings.Builder

	label := p.styles.StatLabelStyle
	value := p.styles.StatValueStyle

	b.WriteString(fmt.Sprintf("  %s %s\n",
		label.Render(fmt.Sprintf("Consistency (%dd):", p.historyDays)),
		value.Render(fmt.Sprintf("%d%%", p.summary.Consistency))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		label.Render("Active days:"),
		value.Render(fmt.Sprintf("%d", p.summary.ActiveDays))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		label.Render("Completions:"),
		value.Render(fmt.Sprintf("%d", p.summary.TotalCompletions))))
	b.WriteString(fmt.Sprintf("  %s %s\n",
		label.Render("Tasks:"),
		value.Render(fmt.Sprintf("%d", p.summary.TotalTasks))))

	return b.String()
}

// renderLeaderboard renders the per-task streak list, best streaks first.
func (p *SummaryPane) renderLeaderboard() string {
	var b strings.Builder

	tasks := p.leaderboard()

	// Leave room for stats block, separators, and history strip
	maxRows := p.height - 16
	if maxRows < 3 {
		maxRows = 3
	}
	startIdx := 0
	if p.cursor >= maxRows {
		startIdx = p.cursor - maxRows + 1
	}

	for i, task := range tasks {
		if i < startIdx || i >= startIdx+maxRows {
			continue
		}

		stats := p.summary.TaskStreaks[task.ID]

		var badge string
		switch {
		case stats.BrokenToday:
			badge = p.styles.StreakBrokenStyle.Render(fmt.Sprintf("✗%d", stats.PreviousStreak))
		case stats.CurrentStreak > 0:
			badge = p.styles.StreakStyle.Render(fmt.Sprintf("🔥%d", stats.CurrentStreak))
		default:
			badge = p.styles.StatLabelStyle.Render("—")
		}
		best := p.styles.StatLabelStyle.Render(fmt.Sprintf("best %d", stats.LongestStreak))

		badgeWidth := lipgloss.Width(badge) + lipgloss.Width(best) + 2
		availableTextWidth := p.width - 6 - badgeWidth
		if availableTextWidth < 5 {
			availableTextWidth = 5
		}
		name := runewidth.Truncate(task.Name, availableTextWidth, "..")
		nameWidth := runewidth.StringWidth(name)

		padding := availableTextWidth - nameWidth
		if padding < 1 {
			padding = 1
		}
		line := fmt.Sprintf("  %s%s%s %s", name, strings.Repeat(" ", padding), badge, best)

		if i == p.cursor && p.focused {
			line = p.styles.TaskSelectedStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// renderHistory renders the recent daily history strip, newest first.
func (p *SummaryPane) renderHistory() string {
	var b strings.Builder

	b.WriteString("  " + p.styles.DayHeaderStyle.Render(fmt.Sprintf("Last %d days", summaryHistoryDays)))
	b.WriteString("\n")

	for _, entry := range p.history {
		day := entry.Date.At(0, 0, time.Local).Format("Mon 02")

		var marks []string
		if n := len(entry.Completed); n > 0 {
			marks = append(marks, p.styles.StreakStyle.Render(fmt.Sprintf("✓%d", n)))
		}
		if n := len(entry.Missed); n > 0 {
			marks = append(marks, p.styles.MissedStyle.Render(fmt.Sprintf("◌%d", n)))
		}
		if n := len(entry.StreakBroken); n > 0 {
			marks = append(marks, p.styles.StreakBrokenStyle.Render(fmt.Sprintf("✗%d", n)))
		}
		if len(marks) == 0 {
			marks = append(marks, p.styles.StatLabelStyle.Render("·"))
		}

		b.WriteString(fmt.Sprintf("  %s  %s\n",
			p.styles.StatLabelStyle.Render(day),
			strings.Join(marks, " ")))
	}

	return b.String()
}

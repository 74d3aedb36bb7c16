// Package ui provides terminal user interface components for the streaks app.
// This file contains the main App model which coordinates both panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"streaks/internal/config"
	"streaks/internal/db"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneToday PaneID = iota
	PaneSummary
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows both panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
	HistoryDays           int
}

// App is the main application model that coordinates both panes.
type App struct {
	store       *db.DB
	styles      *Styles
	config      *AppConfig
	todayPane   *TodayPane
	summaryPane *SummaryPane
	helpOverlay *HelpOverlay
	undoManager *UndoManager
	undoBusy    bool
	confirmDel  *confirmDeleteState
	activePane  PaneID
	layoutMode  LayoutMode
	showHelp    bool
	showWelcome bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	todayPaneStart   int
	todayPaneEnd     int
	summaryPaneStart int
	summaryPaneEnd   int
	contentTop       int // Y coordinate where content starts
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(store *db.DB, styles *Styles, cfg *AppConfig) *App {
	// Use default config if nil
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
			HistoryDays:           30,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	// Create panes with config-aware key bindings
	todayPane := NewTodayPaneWithKeys(store, styles, cfg.Keys)
	summaryPane := NewSummaryPaneWithKeys(store, styles, cfg.HistoryDays, cfg.Keys)
	helpOverlay := NewHelpOverlay(styles)

	// Determine if we should show welcome screen
	showWelcome := cfg.ShowOnboarding && isFirstRun(store)

	app := &App{
		store:       store,
		styles:      styles,
		config:      cfg,
		todayPane:   todayPane,
		summaryPane: summaryPane,
		helpOverlay: helpOverlay,
		undoManager: NewUndoManager(),
		activePane:  PaneToday,
		showHelp:    false,
		showWelcome: showWelcome,
		keys:        NewGlobalKeyMap(cfg.Keys),
		helpKeys:    DefaultHelpKeyMap(),
	}

	// Set initial focus
	todayPane.SetFocused(true)
	summaryPane.SetFocused(false)

	return app
}

// isFirstRun checks if this appears to be the first time running the app.
func isFirstRun(store *db.DB) bool {
	tasks, err := store.GetTasks()
	if err != nil {
		return false
	}
	return len(tasks) == 0
}

// tickMsg is sent periodically for time updates.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the app and loads all data asynchronously.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		a.todayPane.LoadCmd(),
		a.summaryPane.LoadCmd(),
	)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Route async messages first (before key handling) so database
	// operation results are processed regardless of which pane is active.
	switch msg := msg.(type) {
	case dayLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Load: "+msg.err.Error(), true)
		}
		cmd := a.todayPane.Update(msg)
		return a, cmd

	case summaryLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Summary: "+msg.err.Error(), true)
		}
		cmd := a.summaryPane.Update(msg)
		return a, cmd

	case taskSavedMsg:
		if msg.err != nil {
			a.SetStatus("Save task: "+msg.err.Error(), true)
		} else if msg.task != nil {
			if msg.created {
				a.SetStatus("Added: "+truncateText(msg.task.Name, 40), false)
			} else {
				a.SetStatus("Updated: "+truncateText(msg.task.Name, 40), false)
			}
		}
		cmd := a.todayPane.Update(msg)
		return a, tea.Batch(cmd, a.summaryPane.LoadCmd())

	case taskToggledMsg:
		if msg.err != nil {
			a.SetStatus("Toggle task: "+msg.err.Error(), true)
		} else {
			// Push undo action on successful toggle
			a.undoManager.Push(NewToggleCompletionAction(a.store, msg.id, msg.name, msg.day, msg.wasDone))
		}
		cmd := a.todayPane.Update(msg)
		return a, tea.Batch(cmd, a.summaryPane.LoadCmd())

	case taskDeletedMsg:
		if msg.err != nil {
			a.SetStatus("Delete task: "+msg.err.Error(), true)
		} else if msg.task != nil {
			// Push undo action on successful deletion (only if task was captured)
			a.undoManager.Push(NewDeleteTaskAction(a.store, *msg.task, msg.completions))
			a.SetStatus("Deleted: "+truncateText(msg.task.Name, 40), false)
		}
		cmd := a.todayPane.Update(msg)
		return a, tea.Batch(cmd, a.summaryPane.LoadCmd())
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.showWelcome {
			a.showWelcome = false
			return a, nil
		}

		if a.confirmDel != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				cmd := a.confirmDel.cmd
				a.confirmDel = nil
				return a, cmd
			case "n", "N", "esc":
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
				return a, nil
			default:
				return a, nil
			}
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
				return a, nil
			}
			return a, nil
		}

		// Check if the today pane is in input mode
		inInputMode := a.todayPane.IsEditing()

		if !inInputMode {
			// Confirm deletions if enabled.
			if a.config.ConfirmDeletions && a.activePane == PaneToday {
				if key.Matches(msg, a.todayPane.keys.Delete) {
					task := a.todayPane.SelectedTask()
					if task == nil {
						a.SetStatus("No task selected", true)
						return a, nil
					}
					a.confirmDel = &confirmDeleteState{
						title: "Delete task?",
						body:  truncateText(task.Name, 60),
						cmd:   deleteTaskCmd(a.store, task.ID, a.todayPane.today()),
					}
					return a, nil
				}
			}

			// Global keys only when not in input mode
			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextPane):
				a.switchPane()
				return a, nil

			case key.Matches(msg, a.keys.Pane1):
				a.setActivePane(PaneToday)
				return a, nil

			case key.Matches(msg, a.keys.Pane2):
				a.setActivePane(PaneSummary)
				return a, nil

			case key.Matches(msg, a.keys.Undo):
				if a.undoBusy {
					a.SetStatus("Undo: busy", true)
					return a, nil
				}
				a.undoBusy = true
				return a, undoCmd(a.undoManager)

			case key.Matches(msg, a.keys.Redo):
				if a.undoBusy {
					a.SetStatus("Redo: busy", true)
					return a, nil
				}
				a.undoBusy = true
				return a, redoCmd(a.undoManager)
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		if a.showWelcome {
			if msg.Action == tea.MouseActionPress {
				a.showWelcome = false
			}
			return a, nil
		}

		if a.confirmDel != nil {
			if msg.Action == tea.MouseActionPress {
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
			}
			return a, nil
		}

		// Any click closes help
		if a.showHelp {
			if msg.Action == tea.MouseActionPress {
				a.showHelp = false
			}
			return a, nil
		}

		switch msg.Action {
		case tea.MouseActionPress:
			// In narrow mode, check for tab bar clicks
			if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
				tabWidth := a.width / 2
				if msg.X < tabWidth {
					a.setActivePane(PaneToday)
				} else {
					a.setActivePane(PaneSummary)
				}
				return a, nil
			}

			// Determine which pane was clicked (in wide mode)
			clickedPane := a.paneAtPosition(msg.X)
			if clickedPane >= 0 && clickedPane != a.activePane {
				a.setActivePane(clickedPane)
			}

			// Forward click to active pane with adjusted coordinates
			if msg.Y >= a.contentTop {
				localMsg := msg
				localMsg.Y = msg.Y - a.contentTop
				if a.layoutMode == LayoutWide && a.activePane == PaneSummary {
					localMsg.X = msg.X - a.summaryPaneStart
				}

				switch a.activePane {
				case PaneToday:
					cmd := a.todayPane.Update(localMsg)
					return a, cmd
				case PaneSummary:
					cmd := a.summaryPane.Update(localMsg)
					return a, cmd
				}
			}

		case tea.MouseActionMotion:
			// Ignore motion events

		}

		// Handle scroll wheel
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			localMsg := msg
			localMsg.Y = msg.Y - a.contentTop

			switch a.activePane {
			case PaneToday:
				cmd := a.todayPane.Update(localMsg)
				return a, cmd
			case PaneSummary:
				cmd := a.summaryPane.Update(localMsg)
				return a, cmd
			}
		}

		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()
	}

	switch msg := msg.(type) {
	case undoResultMsg:
		a.undoBusy = false
		if msg.err != nil {
			a.SetStatus("Undo failed: "+msg.err.Error(), true)
		} else if msg.desc != "" {
			a.SetStatus("Undid: "+msg.desc, false)
		} else {
			a.SetStatus("Nothing to undo", false)
		}
		return a, tea.Batch(
			a.todayPane.LoadCmd(),
			a.summaryPane.LoadCmd(),
		)

	case redoResultMsg:
		a.undoBusy = false
		if msg.err != nil {
			a.SetStatus("Redo failed: "+msg.err.Error(), true)
		} else if msg.desc != "" {
			a.SetStatus("Redid: "+msg.desc, false)
		} else {
			a.SetStatus("Nothing to redo", false)
		}
		return a, tea.Batch(
			a.todayPane.LoadCmd(),
			a.summaryPane.LoadCmd(),
		)
	}

	// Forward to active pane (only if help is not shown)
	if !a.showHelp {
		switch a.activePane {
		case PaneToday:
			cmd := a.todayPane.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		case PaneSummary:
			cmd := a.summaryPane.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return a, tea.Batch(cmds...)
}

// switchPane cycles through panes.
func (a *App) switchPane() {
	switch a.activePane {
	case PaneToday:
		a.setActivePane(PaneSummary)
	case PaneSummary:
		a.setActivePane(PaneToday)
	}
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.todayPane.SetFocused(pane == PaneToday)
	a.summaryPane.SetFocused(pane == PaneSummary)
}

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		// In narrow mode, return the active pane
		return a.activePane
	}

	if x >= a.todayPaneStart && x < a.todayPaneEnd {
		return PaneToday
	}
	if x >= a.summaryPaneStart && x < a.summaryPaneEnd {
		return PaneSummary
	}
	return -1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar (2) and help bar (1)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}

	// Content starts after title bar (1 line title + 1 line space)
	a.contentTop = 1

	// Update help overlay size
	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	// Determine layout mode based on configured threshold
	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80 // Default threshold
	}

	if a.width < threshold {
		// Narrow mode: single focused pane with tab bar
		a.layoutMode = LayoutNarrow

		// In narrow mode, leave room for tab bar (1 line)
		narrowHeight := contentHeight - 1
		if narrowHeight < 8 {
			narrowHeight = 8
		}

		// Give full width to both panes (only focused one will be shown)
		paneWidth := totalWidth
		if paneWidth < 20 {
			paneWidth = 20
		}

		a.todayPane.SetSize(paneWidth, narrowHeight)
		a.summaryPane.SetSize(paneWidth, narrowHeight)

		// In narrow mode, both panes occupy the same space
		a.todayPaneStart = 0
		a.todayPaneEnd = a.width
		a.summaryPaneStart = 0
		a.summaryPaneEnd = a.width
		// Content starts after tab bar in narrow mode
		a.contentTop = 2
	} else {
		// Wide mode: two panes side-by-side
		a.layoutMode = LayoutWide

		var todayWidth, summaryWidth int
		if totalWidth < 120 {
			// Medium: balanced two-column
			todayWidth = (totalWidth * 55) / 100
			summaryWidth = totalWidth - todayWidth - 1
		} else {
			// Wide: comfortable two-column with max widths
			todayWidth = min((totalWidth*55)/100, 64)
			summaryWidth = min(totalWidth-todayWidth-1, 56)
		}

		a.todayPane.SetSize(todayWidth, contentHeight)
		a.summaryPane.SetSize(summaryWidth, contentHeight)

		// Calculate pane positions (with a 1 space gap between panes)
		a.todayPaneStart = 0
		a.todayPaneEnd = todayWidth
		a.summaryPaneStart = todayWidth + 1
		a.summaryPaneEnd = a.summaryPaneStart + summaryWidth
	}
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showWelcome {
		return a.renderWelcome()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	// Show help overlay if active
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	// Title bar
	titleBar := a.renderTitleBar()
	b.WriteString(titleBar)
	b.WriteString("\n")

	// Main content - switch based on layout mode
	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	// Help bar
	helpBar := a.renderHelpBar()
	b.WriteString(helpBar)

	return b.String()
}

func (a *App) renderWelcome() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorPrimary).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to streaks"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Tab switches panes. ? opens help.\n"))
	b.WriteString(bodyStyle.Render("Add your first task with 'a'.\n"))
	b.WriteString(bodyStyle.Render("Complete it every scheduled day to build a streak.\n"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWideContent renders both panes side by side.
func (a *App) renderWideContent() string {
	todayView := a.todayPane.View()
	summaryView := a.summaryPane.View()

	return lipgloss.JoinHorizontal(lipgloss.Top, todayView, " ", summaryView)
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder

	// Tab bar at top
	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	// Only render the active pane
	switch a.activePane {
	case PaneToday:
		b.WriteString(a.todayPane.View())
	case PaneSummary:
		b.WriteString(a.summaryPane.View())
	}

	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneToday, "Today"},
		{PaneSummary, "Summary"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		label := tab.label
		if tab.id == a.activePane {
			label = activeTabStyle.Render("[" + label + "]")
		} else {
			label = inactiveTabStyle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}

	// Center the tabs
	tabBar := strings.Join(parts, "  ")
	padding := (a.width - lipgloss.Width(tabBar)) / 2
	if padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}

	return tabBar
}

// renderGoodbye shows a nice exit message with the day's progress.
func (a *App) renderGoodbye() string {
	done, total := a.todayPane.Stats()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you tomorrow!\n")
	b.WriteString("\n")

	if total > 0 {
		pct := (done * 100) / total
		b.WriteString("  Today's progress:\n")
		b.WriteString(fmt.Sprintf("     Tasks: %d/%d (%d%%)\n", done, total, pct))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top title bar with stats and the current date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" streaks ")

	// Stats summary
	done, total := a.todayPane.Stats()

	var stats string
	if total > 0 {
		stats = a.styles.StatLabelStyle.Render(fmt.Sprintf("Done: %d/%d", done, total))
	}

	// Current date/time
	now := time.Now()
	dateStr := now.Format("Mon Jan 2 · 15:04")
	date := a.styles.DateStyle.Render(dateStr)

	// Calculate spacing
	titleWidth := lipgloss.Width(title)
	statsWidth := lipgloss.Width(stats)
	dateWidth := lipgloss.Width(date)

	usedWidth := titleWidth + statsWidth + dateWidth
	spacerWidth := a.width - usedWidth - 4
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	var parts []string
	parts = append(parts, title)

	if stats != "" {
		parts = append(parts, "  "+stats)
	}

	parts = append(parts, strings.Repeat(" ", spacerWidth))
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	// Input mode help
	if a.todayPane.IsEditing() {
		return a.styles.RenderHelp(
			"enter", "next/save",
			"esc", "cancel",
		)
	}

	// Normal mode help based on active pane
	switch a.activePane {
	case PaneToday:
		return a.styles.RenderHelp(
			"a", "add",
			"d", "done",
			"x", "del",
			"h/l", "day",
			"j/k", "nav",
			"tab", "pane",
			"?", "help",
		)
	case PaneSummary:
		return a.styles.RenderHelp(
			"j/k", "nav",
			"tab", "pane",
			"?", "help",
		)
	}

	return ""
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program with the given database, styles, and config.
func Run(store *db.DB, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	_, err := p.Run()
	return err
}

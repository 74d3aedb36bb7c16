// Package ui provides terminal user interface components for the streaks app.
package ui

import (
	"fmt"
	"strings"
	"time"

	"streaks/internal/config"
	"streaks/internal/date"
	"streaks/internal/db"
	"streaks/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// taskForm is the in-pane editor for creating or editing a task. It walks
// through three stages: name, scheduled days, and an optional time of day.
type taskForm struct {
	editingID string // empty when creating
	stage     int    // 0 = name, 1 = days, 2 = time
	name      string
	days      []string
	input     textinput.Model
	errText   string
}

// TodayPane shows the tasks due on the viewed day and handles completion
// toggling, task editing, and day navigation.
type TodayPane struct {
	rows    []taskRow
	cursor  int
	focused bool
	width   int
	height  int
	viewDay date.Date
	form    *taskForm
	store   *db.DB
	styles  *Styles
	now     func() time.Time

	// Key bindings
	keys      TaskKeyMap
	inputKeys InputKeyMap
}

// NewTodayPane creates a new today pane viewing the current day.
func NewTodayPane(store *db.DB, styles *Styles) *TodayPane {
	return NewTodayPaneWithKeys(store, styles, &config.KeysConfig{})
}

// NewTodayPaneWithKeys creates a new today pane with custom key bindings.
func NewTodayPaneWithKeys(store *db.DB, styles *Styles, keyCfg *config.KeysConfig) *TodayPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	p := &TodayPane{
		rows:      []taskRow{},
		cursor:    0,
		focused:   true,
		store:     store,
		styles:    styles,
		now:       time.Now,
		keys:      NewTaskKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
	p.viewDay = date.FromTime(p.now())
	return p
}

// SetNowFunc overrides the clock. Intended for tests.
func (p *TodayPane) SetNowFunc(now func() time.Time) {
	p.now = now
	p.viewDay = date.FromTime(now())
}

func (p *TodayPane) today() date.Date {
	return date.FromTime(p.now())
}

// ViewDay returns the day currently being viewed.
func (p *TodayPane) ViewDay() date.Date {
	return p.viewDay
}

// LoadCmd returns a command that loads the viewed day asynchronously.
func (p *TodayPane) LoadCmd() tea.Cmd {
	return loadDayCmd(p.store, p.viewDay, p.today())
}

// setRows updates the row list and adjusts cursor bounds.
func (p *TodayPane) setRows(rows []taskRow) {
	p.rows = rows
	if p.cursor >= len(p.rows) {
		p.cursor = max(0, len(p.rows)-1)
	}
}

// SetSize sets the pane dimensions.
func (p *TodayPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	if p.form != nil {
		p.form.input.Width = max(10, width-6)
	}
}

// SetFocused sets whether this pane is focused.
func (p *TodayPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TodayPane) IsFocused() bool {
	return p.focused
}

// IsEditing returns whether the task form is open.
func (p *TodayPane) IsEditing() bool {
	return p.form != nil
}

// SelectedTask returns the task under the cursor, or nil.
func (p *TodayPane) SelectedTask() *model.Task {
	if len(p.rows) == 0 || p.cursor < 0 || p.cursor >= len(p.rows) {
		return nil
	}
	return &p.rows[p.cursor].Task
}

// Stats returns completion statistics for the viewed day.
func (p *TodayPane) Stats() (done, total int) {
	for _, row := range p.rows {
		if row.Done {
			done++
		}
	}
	return done, len(p.rows)
}

// openForm starts the task form, prefilled when editing an existing task.
func (p *TodayPane) openForm(editing *model.Task) tea.Cmd {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = max(10, p.width-6)
	ti.Placeholder = "Task name (e.g., Exercise)"
	ti.Focus()

	form := &taskForm{input: ti}
	if editing != nil {
		form.editingID = editing.ID
		ti.SetValue(editing.Name)
		form.input = ti
	}
	p.form = form
	return textinput.Blink
}

func (p *TodayPane) closeForm() {
	p.form = nil
}

// advanceForm handles the confirm key inside the form, moving through the
// name, days, and time stages. Returns the save command on the final stage.
func (p *TodayPane) advanceForm() tea.Cmd {
	f := p.form
	f.errText = ""

	switch f.stage {
	case 0:
		name := strings.TrimSpace(f.input.Value())
		if name == "" {
			p.closeForm()
			return nil
		}
		f.name = name
		f.stage = 1
		f.input.Reset()
		f.input.Placeholder = "Days (e.g., mon,wed,fri or daily)"
		f.input.CharLimit = 70
		return nil

	case 1:
		days, err := model.ParseDays(strings.TrimSpace(f.input.Value()))
		if err != nil {
			f.errText = err.Error()
			return nil
		}
		if len(days) == 0 {
			f.errText = "at least one day is required"
			return nil
		}
		f.days = days
		f.stage = 2
		f.input.Reset()
		f.input.Placeholder = "Time (HH:MM, optional)"
		f.input.CharLimit = 5
		return nil

	default:
		timeOfDay := strings.TrimSpace(f.input.Value())
		if timeOfDay != "" {
			if err := model.ValidateTime(timeOfDay); err != nil {
				f.errText = err.Error()
				return nil
			}
		}
		id := f.editingID
		name := f.name
		days := f.days
		p.closeForm()
		return saveTaskCmd(p.store, id, name, timeOfDay, days, p.today())
	}
}

// Update handles messages for the today pane.
func (p *TodayPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	// Handle async messages first
	switch msg := msg.(type) {
	case dayLoadedMsg:
		if msg.err == nil && msg.day == p.viewDay {
			p.setRows(msg.rows)
		}
		return nil

	case taskSavedMsg:
		if msg.err == nil {
			return p.LoadCmd()
		}
		return nil

	case taskToggledMsg:
		return p.LoadCmd()

	case taskDeletedMsg:
		return p.LoadCmd()
	}

	// Form input mode
	if p.form != nil {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch {
			case key.Matches(msg, p.inputKeys.Confirm):
				return p.advanceForm()

			case key.Matches(msg, p.inputKeys.Cancel):
				p.closeForm()
				return nil
			}
		}

		p.form.input, cmd = p.form.input.Update(msg)
		return cmd
	}

	// Normal mode
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.rows) > 0 {
				p.cursor = min(p.cursor+1, len(p.rows)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.rows) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.rows) > 0 {
				p.cursor = len(p.rows) - 1
			}

		case key.Matches(msg, p.keys.PrevDay):
			p.viewDay = p.viewDay.AddDays(-1)
			return p.LoadCmd()

		case key.Matches(msg, p.keys.NextDay):
			p.viewDay = p.viewDay.AddDays(1)
			return p.LoadCmd()

		case key.Matches(msg, p.keys.Today):
			p.viewDay = p.today()
			return p.LoadCmd()

		case key.Matches(msg, p.keys.Add):
			return p.openForm(nil)

		case key.Matches(msg, p.keys.Edit):
			if task := p.SelectedTask(); task != nil {
				return p.openForm(task)
			}

		case key.Matches(msg, p.keys.Toggle):
			if len(p.rows) > 0 && p.cursor < len(p.rows) {
				row := p.rows[p.cursor]
				return toggleTaskCmd(p.store, row.Task.ID, row.Task.Name, p.viewDay)
			}

		case key.Matches(msg, p.keys.Delete):
			if len(p.rows) > 0 && p.cursor < len(p.rows) {
				return deleteTaskCmd(p.store, p.rows[p.cursor].Task.ID, p.today())
			}
		}
	}

	return nil
}

// handleMouse processes mouse events for the today pane.
func (p *TodayPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.rows) == 0 {
		return nil
	}

	// Content starts after title (1) + separator (1) = row 2
	const headerRows = 2

	// Mirror the view windowing logic so clicks map to the visible slice.
	maxRows := p.visibleRows()
	startIdx := 0
	if p.cursor >= maxRows {
		startIdx = p.cursor - maxRows + 1
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
		return nil

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.rows)-1)
		return nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}

		row := msg.Y - headerRows
		if row < 0 || row >= maxRows {
			return nil
		}

		idx := startIdx + row
		if idx < 0 || idx >= len(p.rows) {
			return nil
		}

		p.cursor = idx

		// Checkbox area ("[ ] ") toggles the clicked task
		if msg.X < 5 {
			clicked := p.rows[idx]
			return toggleTaskCmd(p.store, clicked.Task.ID, clicked.Task.Name, p.viewDay)
		}
	}

	return nil
}

func (p *TodayPane) visibleRows() int {
	// Account for title, separator, stats line, and padding
	n := p.height - 6
	if n < 3 {
		n = 5
	}
	return n
}

// dayLabel formats the viewed day for the pane title.
func (p *TodayPane) dayLabel() string {
	today := p.today()
	switch {
	case p.viewDay == today:
		return "Today"
	case p.viewDay == today.AddDays(-1):
		return "Yesterday"
	case p.viewDay == today.AddDays(1):
		return "Tomorrow"
	default:
		return p.viewDay.At(0, 0, time.Local).Format("Mon Jan 2")
	}
}

// View renders the today pane.
func (p *TodayPane) View() string {
	var b strings.Builder

	// Title
	title := p.styles.PaneTitleStyle.Render("📅 " + strings.ToUpper(p.dayLabel()))
	b.WriteString(title)
	b.WriteString("\n")

	// Separator
	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.rows) == 0 && p.form == nil {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  Nothing due. Press 'a' to add a task."))
		b.WriteString("\n")
	} else {
		maxRows := p.visibleRows()
		startIdx := 0
		if p.cursor >= maxRows {
			startIdx = p.cursor - maxRows + 1
		}

		doneCount := 0

		for i, row := range p.rows {
			if row.Done {
				doneCount++
			}

			if i < startIdx || i >= startIdx+maxRows {
				continue
			}

			var checkbox string
			if row.Done {
				checkbox = p.styles.TaskCheckboxDone
			} else {
				checkbox = p.styles.TaskCheckboxPending
			}

			streakBadge := p.formatStreakBadge(row)
			badgeWidth := lipgloss.Width(streakBadge)

			// Layout: [space][checkbox][space][name][space?][badge]
			fixedWidth := 5
			if badgeWidth > 0 {
				fixedWidth += badgeWidth + 1
			}
			availableTextWidth := p.width - 4 - fixedWidth
			if availableTextWidth < 5 {
				availableTextWidth = 5
			}

			name := row.Task.Name
			if row.Task.Time != "" {
				name += " " + row.Task.Time
			}
			text := runewidth.Truncate(name, availableTextWidth, "..")
			textWidth := runewidth.StringWidth(text)

			var line string
			if i == p.cursor && p.focused && p.form == nil {
				textPart := fmt.Sprintf("%s %s", checkbox, text)
				if badgeWidth > 0 {
					padding := availableTextWidth - textWidth
					if padding < 1 {
						padding = 1
					}
					textPart += strings.Repeat(" ", padding) + streakBadge
				}
				line = p.styles.TaskSelectedStyle.Render(" " + textPart + " ")
			} else {
				var styledText string
				if row.Done {
					styledText = p.styles.TaskDoneStyle.Render(text)
				} else {
					styledText = p.styles.TaskPendingStyle.Render(text)
				}

				textPart := fmt.Sprintf(" %s %s", checkbox, styledText)
				if badgeWidth > 0 {
					padding := availableTextWidth - textWidth
					if padding < 1 {
						padding = 1
					}
					textPart += strings.Repeat(" ", padding) + streakBadge
				}
				line = textPart
			}

			b.WriteString(line)
			b.WriteString("\n")
		}

		// Stats
		b.WriteString("\n")
		stats := p.styles.StatLabelStyle.Render(fmt.Sprintf("%d/%d done", doneCount, len(p.rows)))
		b.WriteString("  " + stats)
		b.WriteString("\n")
	}

	// Form when editing
	if p.form != nil {
		b.WriteString("\n")
		prompt := p.styles.InputPromptStyle.Render(p.formPrompt())
		b.WriteString("  " + prompt + " " + p.form.input.View())
		b.WriteString("\n")
		if p.form.errText != "" {
			b.WriteString("  " + p.styles.ErrorStyle.Render(p.form.errText))
			b.WriteString("\n")
		}
	}

	// Apply pane style
	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}

	return style.Width(p.width).Height(p.height).Render(content)
}

func (p *TodayPane) formPrompt() string {
	switch p.form.stage {
	case 0:
		return "Name:"
	case 1:
		return "Days:"
	default:
		return "Time:"
	}
}

// formatStreakBadge renders the streak indicator for a row.
// A run in progress shows as a flame count; a streak broken today shows a
// danger marker with the length of the run that just ended.
func (p *TodayPane) formatStreakBadge(row taskRow) string {
	if row.Stats.BrokenToday && p.viewDay == p.today() {
		return p.styles.StreakBrokenStyle.Render(fmt.Sprintf("✗%d", row.Stats.PreviousStreak))
	}
	if row.Stats.CurrentStreak > 0 {
		return p.styles.StreakStyle.Render(fmt.Sprintf("🔥%d", row.Stats.CurrentStreak))
	}
	return ""
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

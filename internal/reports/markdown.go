// Package reports provides daily and weekly report generation for the streaks app.
package reports

import (
	"fmt"
	"strings"
)

// FormatDailyMarkdown formats a daily report as human-readable Markdown.
func FormatDailyMarkdown(report *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Report — %s (%s)\n\n", report.Date, report.Date.Weekday())

	if report.DueCount == 0 {
		b.WriteString("Nothing scheduled for this day.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "**%d of %d** scheduled tasks completed.\n\n", report.DoneCount, report.DueCount)

	b.WriteString("| Task | Done | Streak | Longest |\n")
	b.WriteString("|------|------|--------|--------|\n")
	for _, t := range report.Tasks {
		mark := " "
		switch {
		case t.Done:
			mark = "x"
		case t.StreakBroken:
			mark = "!"
		}
		name := t.Name
		if t.Time != "" {
			name = fmt.Sprintf("%s (%s)", name, t.Time)
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %d |\n",
			name, mark, t.Stats.CurrentStreak, t.Stats.LongestStreak)
	}

	broken := 0
	for _, t := range report.Tasks {
		if t.StreakBroken {
			broken++
		}
	}
	if broken > 0 {
		fmt.Fprintf(&b, "\n%d streak(s) broken on this day.\n", broken)
	}

	return b.String()
}

// FormatWeeklyMarkdown formats a weekly report as human-readable Markdown.
func FormatWeeklyMarkdown(report *WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Report — %s to %s\n\n", report.StartDate, report.EndDate)
	fmt.Fprintf(&b, "- Consistency: **%d%%**\n", report.Consistency)
	fmt.Fprintf(&b, "- Active days: **%d**\n", report.ActiveDays)
	fmt.Fprintf(&b, "- Completions: **%d**\n\n", report.Completions)

	b.WriteString("## Daily breakdown\n\n")
	b.WriteString("| Date | Day | Due | Done | Missed | Broken |\n")
	b.WriteString("|------|-----|-----|------|--------|--------|\n")
	for _, d := range report.DailyBreakdown {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d |\n",
			d.Date, d.DayOfWeek, d.Due, d.Done, d.Missed, d.Broken)
	}

	if len(report.TaskStreaks) > 0 {
		b.WriteString("\n## Streaks\n\n")
		b.WriteString("| Task | Current | Previous | Longest |\n")
		b.WriteString("|------|---------|----------|--------|\n")
		for _, t := range report.TaskStreaks {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n",
				t.Name, t.Stats.CurrentStreak, t.Stats.PreviousStreak, t.Stats.LongestStreak)
		}
	}

	return b.String()
}

// Package main is the entry point for the streaks application.
// It loads configuration, opens the database, and starts the TUI.
package main

import (
	"flag"
	"fmt"
	"os"

	"streaks/internal/app"
	"streaks/internal/scheduler"
	"streaks/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpText = `streaks - A habit tracker with streaks for your terminal

USAGE:
    streaks [OPTIONS]
    streaks <command> [ARGS]

COMMANDS:
    add NAME         Add a task from the command line
    serve            Run the HTTP API server
    export           Generate a daily report (Markdown)
    export --weekly  Generate a weekly report
    export -f json   Output report as JSON
    backup           Snapshot the database
    restore          Restore the database from a backup

OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    streaks is a terminal-based habit tracker. Schedule recurring tasks on
    the weekdays they are due, check them off, and keep the streak alive.

FEATURES:
    • Streaks    - Current, previous and longest runs per task
    • History    - Completed, missed and broken days at a glance
    • Reminders  - Optional desktop notifications at task time
    • Local Data - SQLite database in ~/.local/share/streaks/

KEYBINDINGS:
    Global:
        Tab          Switch between panes
        1, 2         Jump to specific pane
        ?            Show help overlay
        Ctrl+Z       Undo last action
        Ctrl+Y       Redo
        q            Quit

    Today Pane:
        j/k, ↓/↑     Navigate
        a            Add task
        e            Edit task
        d/Space      Toggle done
        x            Delete task
        h/l, ←/→     Previous/next day
        t            Back to today
        g/G          Go to top/bottom

    Summary Pane:
        j/k, ↓/↑     Scroll streaks

DATA STORAGE:
    All data is stored in a single SQLite database:
        ~/.local/share/streaks/streaks.db

CONFIGURATION:
    Optional config file: ~/.config/streaks/config.yaml
    See documentation for configuration options.

EXAMPLES:
    # Start the app
    streaks

    # Add a task due every weekday at 07:30
    streaks add "Morning run" --days mon,tue,wed,thu,fri --time 07:30

    # Generate today's report
    streaks export

    # Generate weekly report as JSON
    streaks export --weekly --format json

    # Run the HTTP API
    streaks serve

    # Show version
    streaks --version
`

func main() {
	// Check for subcommands first (before flag parsing)
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			runAdd(os.Args[2:])
			return
		case "serve":
			runServe(os.Args[2:])
			return
		case "export":
			runExport(os.Args[2:])
			return
		case "backup":
			runBackup(os.Args[2:])
			return
		case "restore":
			runRestore(os.Args[2:])
			return
		case "version":
			fmt.Printf("streaks version %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
			return
		}
	}

	// Define flags
	showVersion := flag.Bool("version", false, "show version information")
	flag.BoolVar(showVersion, "v", false, "show version information (shorthand)")

	showHelp := flag.Bool("help", false, "show help message")
	flag.BoolVar(showHelp, "h", false, "show help message (shorthand)")

	// Custom usage message
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, helpText)
	}

	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("streaks version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	// Handle help flag
	if *showHelp {
		fmt.Print(helpText)
		os.Exit(0)
	}

	// Reject unknown arguments
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Error: unknown arguments: %v\n\n", flag.Args())
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration, take the instance lock and open the database
	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	cfg := application.Config

	// Start the reminder scheduler alongside the TUI
	sched := scheduler.New(application.DB, application.Notifier, cfg.Notifications)
	if err := sched.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: reminders disabled: %v\n", err)
	}
	defer sched.Stop()

	// Create styles from theme config
	styles := ui.NewStylesFromTheme(&cfg.Theme)

	// Create app config with keys and UX settings
	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        true,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		HistoryDays:           cfg.UX.HistoryDays,
	}

	// Run the TUI
	if err := ui.Run(application.DB, styles, appCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}

// Package main is the entry point for the streaks application.
// This file contains the add subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"streaks/internal/app"
	datepkg "streaks/internal/date"
	"streaks/internal/model"
)

// addHelpText is the help message for the add subcommand.
const addHelpText = `streaks add - Add a task from the command line

USAGE:
    streaks add NAME [OPTIONS]

OPTIONS:
    --days DAYS      Scheduled weekdays, comma-separated (default: daily)
                     Accepts full names, abbreviations, or "daily"
    --time HH:MM     Time of day for reminders (optional)
    --from DATE      First date the task counts as due (YYYY-MM-DD,
                     default: today)
    -h, --help       Show this help message

EXAMPLES:
    # Every day
    streaks add "Read 20 pages"

    # Monday, Wednesday, Friday at 07:30
    streaks add "Morning run" --days mon,wed,fri --time 07:30

    # Backfill a habit you started last month
    streaks add "Meditate" --from 2025-11-01
`

// runAdd handles the "streaks add" subcommand.
func runAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)

	daysFlag := fs.String("days", "daily", "scheduled weekdays")
	timeFlag := fs.String("time", "", "time of day (HH:MM)")
	fromFlag := fs.String("from", "", "first due date (YYYY-MM-DD)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, addHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(addHelpText)
		os.Exit(0)
	}

	name := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if name == "" {
		fmt.Fprint(os.Stderr, "Error: task name is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	days, err := model.ParseDays(*daysFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(days) == 0 {
		fmt.Fprint(os.Stderr, "Error: at least one day is required\n")
		os.Exit(1)
	}

	if err := model.ValidateTime(*timeFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	createdOn := datepkg.Today()
	if *fromFlag != "" {
		createdOn, err = datepkg.Parse(*fromFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid date %q. Use YYYY-MM-DD format.\n", *fromFlag)
			os.Exit(1)
		}
	}

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	task, err := application.DB.CreateTask(name, "", *timeFlag, days, createdOn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating task: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Added %q (%s)\n", task.Name, model.DayAbbreviations(task.Days))
}

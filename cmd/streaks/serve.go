// Package main is the entry point for the streaks application.
// This file contains the serve subcommand handler.
package main

import (
	"flag"
	"fmt"
	"os"

	"streaks/internal/app"
	"streaks/internal/scheduler"
	"streaks/internal/web"
)

// serveHelpText is the help message for the serve subcommand.
const serveHelpText = `streaks serve - Run the HTTP API server

USAGE:
    streaks serve [OPTIONS]

OPTIONS:
    -a, --addr ADDR  Listen address (default from config, 127.0.0.1:8487)
    -h, --help       Show this help message

DESCRIPTION:
    Serves the task and streak API over HTTP. All endpoints live under
    /api and exchange JSON:

        GET    /api/tasks             List tasks
        POST   /api/tasks             Create a task
        GET    /api/tasks/:id         Get a task
        PUT    /api/tasks/:id         Update a task
        DELETE /api/tasks/:id         Delete a task
        POST   /api/tasks/:id/toggle  Toggle completion
        GET    /api/tasks/:id/stats   Streak stats for a task
        GET    /api/stats             Aggregate stats
        GET    /api/history           Daily history

    Desktop reminders keep running while the server is up.

EXAMPLES:
    # Serve on the configured address
    streaks serve

    # Serve on a specific port
    streaks serve --addr 0.0.0.0:9000
`

// runServe handles the "streaks serve" subcommand.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	addrFlag := fs.String("addr", "", "listen address")
	fs.StringVar(addrFlag, "a", "", "listen address (shorthand)")

	helpFlag := fs.Bool("help", false, "show help message")
	fs.BoolVar(helpFlag, "h", false, "show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprint(os.Stderr, serveHelpText)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *helpFlag {
		fmt.Print(serveHelpText)
		os.Exit(0)
	}

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	cfg := application.Config

	addr := *addrFlag
	if addr == "" {
		addr = cfg.Server.Addr
	}

	// Reminders fire while the server runs
	sched := scheduler.New(application.DB, application.Notifier, cfg.Notifications)
	if err := sched.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: reminders disabled: %v\n", err)
	}
	defer sched.Stop()

	server := web.NewServer(application.DB)
	fmt.Printf("streaks API listening on %s\n", addr)
	if err := server.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

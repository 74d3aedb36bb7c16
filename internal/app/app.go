// Package app wires configuration, storage and notifications into a single
// application handle shared by the TUI, the HTTP server and the CLI
// subcommands.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"streaks/internal/config"
	"streaks/internal/db"
	"streaks/internal/notify"
)

// App holds the application state and dependencies.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Notifier notify.Notifier
	DataDir  string
	lockFile *flock.Flock
}

// New loads configuration, takes the single-instance lock and opens the
// database. Call Close when done.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds an App on an already-loaded configuration.
func NewWithConfig(cfg *config.Config) (*App, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		DataDir:  dataDir,
		Notifier: notify.New(),
	}

	if err := app.acquireLock(); err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.DBPath())
	if err != nil {
		app.releaseLock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	return app, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances.
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.DataDir, "streaks.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of streaks is already running")
	}

	return nil
}

// releaseLock releases the file lock.
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

// Close cleans up application resources.
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

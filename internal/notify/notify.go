// Package notify sends desktop reminders through whatever the host
// platform offers: osascript on macOS, notify-send on Linux, nothing
// elsewhere.
package notify

import (
	"fmt"
	"os/exec"
)

// Notifier delivers desktop notifications.
type Notifier interface {
	// Send shows a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound shows a notification and plays the platform sound.
	SendWithSound(title, message string) error

	// IsSupported reports whether delivery can work on this platform.
	IsSupported() bool
}

// New returns the notifier for this platform, or a silent one when the
// platform tool is missing.
func New() Notifier {
	n := execNotifier{}
	if !n.IsSupported() {
		return silentNotifier{}
	}
	return n
}

// execNotifier shells out to the platform notification tool. The
// platform-specific build files supply notifyCommand and notifyTool.
type execNotifier struct{}

func (execNotifier) Send(title, message string) error {
	return runNotify(title, message, false)
}

func (execNotifier) SendWithSound(title, message string) error {
	return runNotify(title, message, true)
}

func (execNotifier) IsSupported() bool {
	if notifyTool == "" {
		return false
	}
	_, err := exec.LookPath(notifyTool)
	return err == nil
}

func runNotify(title, message string, sound bool) error {
	cmd := notifyCommand(title, message, sound)
	if cmd == nil {
		return nil
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", notifyTool, err)
	}
	return nil
}

// silentNotifier drops every notification.
type silentNotifier struct{}

func (silentNotifier) Send(title, message string) error          { return nil }
func (silentNotifier) SendWithSound(title, message string) error { return nil }
func (silentNotifier) IsSupported() bool                         { return false }

// Config holds notification configuration.
type Config struct {
	// Enabled enables/disables notifications
	Enabled bool `yaml:"enabled"`

	// DefaultTime is the reminder time (HH:MM) for tasks that have no
	// time of their own
	DefaultTime string `yaml:"default_time"`

	// Sound enables notification sounds
	Sound bool `yaml:"sound"`
}

// DefaultConfig returns the default notification configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:     false,
		DefaultTime: "09:00",
		Sound:       false,
	}
}

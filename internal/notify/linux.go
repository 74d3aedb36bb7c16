//go:build linux

package notify

import "os/exec"

const notifyTool = "notify-send"

// notifyCommand builds the notify-send invocation for one notification.
// Sound delivery is up to the notification daemon; the urgency hint is
// the closest portable knob.
func notifyCommand(title, message string, sound bool) *exec.Cmd {
	args := []string{"--app-name=streaks"}
	if sound {
		args = append(args, "--urgency=normal")
	}
	args = append(args, title, message)
	return exec.Command("notify-send", args...)
}

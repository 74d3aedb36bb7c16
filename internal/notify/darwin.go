//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

const notifyTool = "osascript"

// notifyCommand builds the osascript invocation for one notification.
func notifyCommand(title, message string, sound bool) *exec.Cmd {
	script := fmt.Sprintf(`display notification %q with title %q`,
		escapeAppleScript(message), escapeAppleScript(title))
	if sound {
		script += ` sound name "default"`
	}
	return exec.Command("osascript", "-e", script)
}

// escapeAppleScript escapes backslashes and quotes for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

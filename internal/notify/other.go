//go:build !darwin && !linux

package notify

import "os/exec"

// No delivery tool on this platform.
const notifyTool = ""

func notifyCommand(title, message string, sound bool) *exec.Cmd {
	return nil
}

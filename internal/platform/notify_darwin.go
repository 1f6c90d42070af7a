//go:build darwin

package platform

import (
	"os/exec"
)

// Notify displays a desktop notification using macOS Notification Center.
func Notify(title, body string, opts Options) error {
	return exec.Command("osascript", "-e", appleScript(title, body, opts)).Run()
}

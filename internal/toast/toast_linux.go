//go:build linux

package toast

import (
	"fmt"
	"os/exec"
)

// Available reports whether this host can display desktop notifications.
func Available() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Show displays a Linux desktop notification using notify-send.
func Show(title, message string) error {
	cmd := exec.Command("notify-send", "--app-name=duos", title, message)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("toast failed: %w\n%s", err, out)
	}
	return nil
}

//go:build !unix && !windows

package procutil

import "os/exec"

// HideWindow is a no-op on this platform.
func HideWindow(cmd *exec.Cmd) *exec.Cmd {
	return cmd
}

// Detach is a no-op on this platform.
func Detach(cmd *exec.Cmd) *exec.Cmd {
	return cmd
}

//go:build unix

// Package procutil adjusts how child processes are spawned on each platform.
package procutil

import (
	"os/exec"
	"syscall"
)

// HideWindow is a no-op outside Windows.
func HideWindow(cmd *exec.Cmd) *exec.Cmd {
	return cmd
}

// Detach puts the command in its own session so terminal signals sent to us
// do not reach it.
func Detach(cmd *exec.Cmd) *exec.Cmd {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd
}

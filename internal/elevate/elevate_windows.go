//go:build windows

package elevate

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// IsAdmin returns true if the process token is elevated.
func IsAdmin() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// RunAsAdmin re-launches the current executable through the UAC prompt.
// If the user accepts, this function does not return (it exits the current
// process). If the user cancels, it returns an error.
func RunAsAdmin(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	escaped := make([]string, len(args))
	for i, a := range args {
		escaped[i] = windows.EscapeArg(a)
	}

	verb, _ := windows.UTF16PtrFromString("runas")
	file, _ := windows.UTF16PtrFromString(exe)
	params, _ := windows.UTF16PtrFromString(strings.Join(escaped, " "))
	cwd, _ := os.Getwd()
	dir, _ := windows.UTF16PtrFromString(cwd)

	if err := windows.ShellExecute(0, verb, file, params, dir, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("UAC elevation failed or was cancelled: %w", err)
	}

	os.Exit(0)
	return nil
}

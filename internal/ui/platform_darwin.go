//go:build darwin

package ui

import (
	"errors"
	"os/exec"
	"strings"
)

// pickExecutable shows the native choose-file dialog.
func pickExecutable() (string, bool, error) {
	out, err := exec.Command("osascript", "-e",
		`POSIX path of (choose file with prompt "Select the Oculus client executable")`).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && strings.Contains(string(exitErr.Stderr), "-128") {
			return "", false, nil
		}
		return "", false, err
	}
	path := strings.TrimSpace(string(out))
	return path, path != "", nil
}

// openPath opens path with its associated application.
func openPath(path string) error {
	return exec.Command("open", path).Start()
}

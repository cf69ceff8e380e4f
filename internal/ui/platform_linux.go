//go:build linux

package ui

import (
	"errors"
	"os/exec"
	"strings"
)

// pickExecutable shows a file chooser through zenity or kdialog.
func pickExecutable() (string, bool, error) {
	var cmd *exec.Cmd
	if path, err := exec.LookPath("zenity"); err == nil {
		cmd = exec.Command(path, "--file-selection", "--title=Select the Oculus client executable")
	} else if path, err := exec.LookPath("kdialog"); err == nil {
		cmd = exec.Command(path, "--getopenfilename", ".", "--title", "Select the Oculus client executable")
	} else {
		return "", false, errors.New("no file chooser found (install zenity or kdialog), or use: oculus-guard path set <file>")
	}

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	path := strings.TrimSpace(string(out))
	return path, path != "", nil
}

// openPath opens path with its associated application.
func openPath(path string) error {
	return exec.Command("xdg-open", path).Start()
}

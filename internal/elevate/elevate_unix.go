//go:build unix && !darwin

package elevate

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// IsAdmin returns true if the current process is running as root.
func IsAdmin() bool {
	return os.Geteuid() == 0
}

// RunAsAdmin re-launches the current executable with root privileges,
// through pkexec when available and sudo otherwise.
func RunAsAdmin(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}

	argv := append([]string{exe}, args...)

	if path, err := exec.LookPath("pkexec"); err == nil {
		cmd := exec.Command(path, argv...)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := cmd.Run(); err == nil {
			os.Exit(0)
		} else if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() != 126 && exitErr.ExitCode() != 127 {
			os.Exit(exitErr.ExitCode())
		}
	}

	sudoPath, err := exec.LookPath("sudo")
	if err != nil {
		return fmt.Errorf("neither pkexec nor sudo found; please run as root")
	}

	return syscall.Exec(sudoPath, append([]string{"sudo"}, argv...), os.Environ())
}

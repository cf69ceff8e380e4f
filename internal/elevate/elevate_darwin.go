//go:build darwin

package elevate

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
)

// IsAdmin returns true if the current process is running as root.
func IsAdmin() bool {
	return os.Geteuid() == 0
}

// RunAsAdmin re-launches the current executable with root privileges.
// It shows the native authorization dialog through osascript and falls back
// to sudo.
func RunAsAdmin(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	parts := []string{shellQuote(exe)}
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}

	if osascript, err := exec.LookPath("osascript"); err == nil {
		script := fmt.Sprintf(`do shell script "%s" with administrator privileges`, escapeAppleScript(strings.Join(parts, " ")))
		cmd := exec.Command(osascript, "-e", script)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		if err := cmd.Start(); err == nil {
			os.Exit(0)
		}
	}

	sudoPath, err := exec.LookPath("sudo")
	if err != nil {
		return fmt.Errorf("osascript and sudo not available; please run as root")
	}
	return syscall.Exec(sudoPath, append([]string{"sudo", exe}, args...), os.Environ())
}

// escapeAppleScript escapes s for an AppleScript double-quoted string.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

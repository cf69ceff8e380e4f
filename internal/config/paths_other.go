//go:build !windows

package config

import (
	"os"
	"path/filepath"
)

// DataDir returns the per-user directory for settings and logs.
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "oculus-guard")
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

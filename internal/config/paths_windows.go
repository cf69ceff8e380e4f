//go:build windows

package config

import (
	"os"
	"path/filepath"
)

// DataDir returns the per-user directory for settings and logs.
func DataDir() string {
	if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
		return filepath.Join(dir, "OculusGuard")
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

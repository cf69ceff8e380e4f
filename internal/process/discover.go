package process

import (
	"os"
	"path/filepath"
	"strings"
)

var supportSubPath = filepath.Join("Support", "oculus-client")

var fallbackBaseDirs = []string{
	`C:\Program Files\Meta Horizon`,
	`C:\Program Files\Oculus`,
}

// DiscoverPath locates the client executable. An override naming an existing
// file wins; otherwise the install directory from the registry is tried, then
// the well-known install directories.
func (m *Manager) DiscoverPath(override string) (string, bool) {
	if override = strings.TrimSpace(override); override != "" && fileExists(override) {
		return override, true
	}

	if base, ok := m.baseDir(); ok {
		if path, ok := m.findInBase(base); ok {
			return path, true
		}
	}

	for _, base := range m.fallbackDirs {
		if path, ok := m.findInBase(base); ok {
			return path, true
		}
	}
	return "", false
}

func (m *Manager) findInBase(base string) (string, bool) {
	dir := filepath.Join(base, m.subPath)
	for _, exe := range m.exeNames {
		path := filepath.Join(dir, exe)
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

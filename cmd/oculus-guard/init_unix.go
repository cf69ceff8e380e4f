//go:build unix

package main

import (
	"os"
	"strings"
)

func init() {
	// Desktop launchers and pkexec start us with a minimal PATH that can
	// miss the sbin directories where iptables and pfctl live.
	extraPaths := []string{
		"/usr/local/sbin",
		"/usr/sbin",
		"/sbin",
	}

	current := os.Getenv("PATH")
	parts := strings.Split(current, ":")
	existing := make(map[string]bool, len(parts))
	for _, p := range parts {
		existing[p] = true
	}

	var toAdd []string
	for _, p := range extraPaths {
		if !existing[p] {
			toAdd = append(toAdd, p)
		}
	}

	if len(toAdd) > 0 {
		if current != "" {
			toAdd = append([]string{current}, toAdd...)
		}
		os.Setenv("PATH", strings.Join(toAdd, ":"))
	}
}

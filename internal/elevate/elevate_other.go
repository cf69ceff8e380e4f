//go:build !unix && !windows

package elevate

import "errors"

// IsAdmin always reports false on this platform.
func IsAdmin() bool {
	return false
}

// RunAsAdmin is not supported on this platform.
func RunAsAdmin(args []string) error {
	return errors.New("elevation is not supported on this platform")
}

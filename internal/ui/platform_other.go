//go:build !windows && !linux && !darwin

package ui

import "errors"

var errNoDesktop = errors.New("not supported on this platform")

func pickExecutable() (string, bool, error) {
	return "", false, errNoDesktop
}

func openPath(string) error {
	return errNoDesktop
}

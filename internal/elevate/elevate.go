// Package elevate checks for and requests the privileges needed to change
// host firewall rules.
package elevate

import (
	"errors"
	"strings"
)

// Flag marks a process that was relaunched by RunAsAdmin. A process carrying
// it that is still not elevated must not try again.
const Flag = "--elevated"

// ErrStillNotElevated is returned when a relaunched process lacks privileges.
var ErrStillNotElevated = errors.New("still not running with administrator privileges after elevation")

// Relaunched reports whether args carry Flag.
func Relaunched(args []string) bool {
	for _, a := range args {
		if a == Flag {
			return true
		}
	}
	return false
}

// Ensure returns nil if the process is elevated. Otherwise it relaunches the
// program with args elevated and, if that works, does not return.
func Ensure(args []string) error {
	if IsAdmin() {
		return nil
	}
	if Relaunched(args) {
		return ErrStillNotElevated
	}
	return RunAsAdmin(append(append([]string(nil), args...), Flag))
}

// shellQuote wraps s in single quotes for a POSIX shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

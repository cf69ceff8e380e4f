//go:build windows

package logger

import (
	"os"

	"golang.org/x/sys/windows"
)

// redirectStderr points the process stderr handle at the log file. The tray
// build has no console, so runtime panics would otherwise be lost.
func redirectStderr(f *os.File) {
	if err := windows.SetStdHandle(windows.STD_ERROR_HANDLE, windows.Handle(f.Fd())); err != nil {
		return
	}
	os.Stderr = f
}

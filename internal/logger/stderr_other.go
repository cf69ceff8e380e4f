//go:build !windows

package logger

import "os"

// redirectStderr is a no-op outside Windows: the process keeps its terminal
// and panics stay visible there.
func redirectStderr(*os.File) {}

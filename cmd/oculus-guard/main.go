// Oculus Guard - runs the Oculus PC client with the Meta API blocked
package main

import (
	"os"

	"github.com/user/oculus-guard/internal/logger"
	"github.com/user/oculus-guard/internal/shutdown"
)

func main() {
	defer shutdown.RunOnPanic()

	err := newRootCommand().Execute()
	shutdown.Run()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

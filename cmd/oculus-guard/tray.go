package main

import (
	"github.com/spf13/cobra"

	"github.com/user/oculus-guard/internal/logger"
	"github.com/user/oculus-guard/internal/shutdown"
	"github.com/user/oculus-guard/internal/ui"
)

func newTrayCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "tray",
		Short:       "Show the system tray icon (default)",
		Args:        cobra.NoArgs,
		Annotations: ownsRule(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTray(cmd)
		},
	}
}

func (a *app) runTray(cmd *cobra.Command) error {
	if err := a.requireAdmin(); err != nil {
		return err
	}
	logger.RedirectStderr()
	logger.Info("Oculus Guard starting (tray)")

	ctx, cancel := shutdown.Watch(cmd.Context(), shutdownGrace)
	defer cancel()

	ui.Run(ctx, a.controller())
	logger.Info("Oculus Guard stopped")
	return nil
}

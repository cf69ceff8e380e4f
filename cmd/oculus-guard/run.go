package main

import (
	"github.com/spf13/cobra"

	"github.com/user/oculus-guard/internal/logger"
	"github.com/user/oculus-guard/internal/shutdown"
)

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Launch Oculus with the Meta API blocked until interrupted",
		Long: "Stops the Oculus client, blocks the Meta API in the host firewall and starts\n" +
			"the client again. The block is lifted on Ctrl+C or SIGTERM.",
		Args:        cobra.NoArgs,
		Annotations: ownsRule(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}
			logger.Info("Oculus Guard starting (headless)")

			ctx, cancel := shutdown.Watch(cmd.Context(), shutdownGrace)
			defer cancel()

			out := cmd.OutOrStdout()
			c := a.controller()
			for _, line := range c.Log() {
				printLine(out, line)
			}
			c.AddLogListener(func(line string) { printLine(out, line) })

			if err := c.Launch(ctx); err != nil {
				return err
			}

			dimColor.Fprintln(out, "Press Ctrl+C to stop and restore API access.")
			<-ctx.Done()
			return c.Stop()
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/oculus-guard/internal/core"
	"github.com/user/oculus-guard/internal/firewall"
)

func newCleanupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove block rules left behind by an earlier run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var failed int
			for _, res := range core.CleanupRules(firewall.Default()) {
				switch {
				case res.Err != nil:
					failed++
					errorColor.Fprintf(out, "%s: %v\n", res.Name, res.Err)
				case res.Found:
					successColor.Fprintf(out, "%s: removed\n", res.Name)
				default:
					fmt.Fprintf(out, "%s: not present\n", res.Name)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d rule(s) could not be removed", failed)
			}
			return nil
		},
	}
}

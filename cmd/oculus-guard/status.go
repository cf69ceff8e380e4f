package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/oculus-guard/internal/core"
	"github.com/user/oculus-guard/internal/firewall"
)

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a block rule is installed and which client would be used",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAdmin(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			store := firewall.Default()
			for _, name := range []string{core.RuleName, core.LegacyRuleName} {
				if store.Exists(name) {
					warningColor.Fprintf(out, "Rule %s: installed\n", name)
				} else {
					fmt.Fprintf(out, "Rule %s: not installed\n", name)
				}
			}
			a.printClient(cmd)
			return nil
		},
	}
}

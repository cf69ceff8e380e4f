package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPathCommand(a *app) *cobra.Command {
	command := &cobra.Command{
		Use:   "path",
		Short: "Manage the custom Oculus client path",
	}

	command.AddCommand(
		&cobra.Command{
			Use:   "set <file>",
			Short: "Use file instead of auto-detecting the client",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.settings.SaveOverridePath(args[0]); err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				path := a.settings.OverridePath()
				fmt.Fprintf(out, "Custom Oculus path set: %s\n", path)
				if info, err := os.Stat(path); err != nil || info.IsDir() {
					warningColor.Fprintln(out, "Warning: the file does not exist yet; auto-detect is used until it does.")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Go back to auto-detecting the client",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.settings.SaveOverridePath(""); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Custom path cleared. Using auto-detect.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the custom path and the client that would be launched",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				a.printClient(cmd)
			},
		},
	)
	return command
}

func (a *app) printClient(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	override := a.settings.OverridePath()
	if override == "" {
		fmt.Fprintln(out, "Custom path: none (auto-detect)")
	} else {
		fmt.Fprintf(out, "Custom path: %s\n", override)
	}
	if path, ok := a.processManager().DiscoverPath(override); ok {
		fmt.Fprintf(out, "Client: %s\n", path)
	} else {
		errorColor.Fprintln(out, "Client: not found")
	}
	fmt.Fprintf(out, "Settings: %s\n", a.settings.Path())
}

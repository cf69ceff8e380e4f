package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/oculus-guard/internal/config"
	"github.com/user/oculus-guard/internal/core"
	"github.com/user/oculus-guard/internal/elevate"
	"github.com/user/oculus-guard/internal/firewall"
	"github.com/user/oculus-guard/internal/logger"
	"github.com/user/oculus-guard/internal/process"
	"github.com/user/oculus-guard/internal/resolver"
	"github.com/user/oculus-guard/internal/shutdown"
)

// shutdownGrace is how long a signalled command may take to unwind before the
// exit hooks run and the process is forced out.
const shutdownGrace = 15 * time.Second

// ownsRuleAnnotation marks commands that may install the block rule. Only
// those register the exit hook that removes it.
const ownsRuleAnnotation = "oculus-guard/owns-rule"

func ownsRule() map[string]string {
	return map[string]string{ownsRuleAnnotation: "true"}
}

// app carries what every command shares.
type app struct {
	env      config.Env
	settings *config.Manager
	elevated bool
	store    firewall.RuleStore
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "oculus-guard",
		Short:         "Run the Oculus PC client with the Meta API blocked",
		SilenceUsage:  true,
		SilenceErrors: false,
		Annotations:   ownsRule(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(); err != nil {
				return err
			}
			if cmd.Annotations[ownsRuleAnnotation] == "true" {
				a.registerCleanup()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTray(cmd)
		},
	}
	root.PersistentFlags().BoolVar(&a.elevated, "elevated", false, "set on the copy started by the elevation prompt")
	_ = root.PersistentFlags().MarkHidden("elevated")

	root.AddCommand(
		newTrayCommand(a),
		newRunCommand(a),
		newCleanupCommand(a),
		newStatusCommand(a),
		newPathCommand(a),
	)
	return root
}

func (a *app) init() error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	a.env = env

	if err := logger.Init(config.DataDir(), env.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	if a.elevated {
		logger.Debug("Running as the elevated copy")
	}
	a.settings = config.Open(env.SettingsPath)
	return nil
}

// requireAdmin makes sure the firewall can be changed, relaunching elevated
// if needed.
func (a *app) requireAdmin() error {
	if err := elevate.Ensure(os.Args[1:]); err != nil {
		return fmt.Errorf("administrator privileges are required to manage firewall rules: %w", err)
	}
	return nil
}

// registerCleanup opens the platform rule store and registers the exit hook
// that removes any block rule left when the process ends, normally or by a
// panic.
func (a *app) registerCleanup() {
	store := a.rules()
	shutdown.Register("firewall-cleanup", func() error {
		for _, res := range core.CleanupRules(store) {
			if res.Err != nil {
				return fmt.Errorf("remove %s: %w", res.Name, res.Err)
			}
			if res.Found {
				logger.Info("Exit hook removed firewall rule %s", res.Name)
			}
		}
		return nil
	})
}

// rules returns the platform rule store.
func (a *app) rules() firewall.RuleStore {
	if a.store == nil {
		a.store = firewall.Default()
	}
	return a.store
}

func (a *app) processManager() *process.Manager {
	return process.NewManager(process.WithExitTimeout(a.env.ExitTimeout))
}

func (a *app) controller() *core.Controller {
	res := resolver.New(resolver.ForServers(a.env.DNSServers),
		resolver.WithTimeout(a.env.DNSTimeout),
		resolver.WithAttempts(a.env.DNSAttempts),
	)
	opts := core.DefaultOptions()
	opts.SettleDelay = a.env.SettleDelay
	return core.New(a.rules(), a.processManager(), res, a.settings, opts)
}

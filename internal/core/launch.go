package core

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/user/oculus-guard/internal/logger"
)

// Launch starts a protected session: it finds the client, stops it if it is
// running, resolves the blocked domains, installs the block rule and starts
// the client again. On failure after the client was found the rule is removed
// and the session returns to idle. Launch does nothing unless the session is
// idle.
func (c *Controller) Launch(ctx context.Context) error {
	if !c.transition(PhaseIdle, PhaseBusy) {
		logger.Debug("Launch ignored in phase %s", c.Phase())
		return nil
	}
	c.update(func() {
		c.warning = false
		c.lastError = nil
	})

	c.logf("Searching for Oculus client...")
	c.setMessage("Searching for Oculus client...")

	override := c.OverridePath()
	path, ok := c.proc.DiscoverPath(override)
	if !ok {
		if override != "" {
			c.logf("ERROR: Custom path not found: %s", override)
		} else {
			c.logf("ERROR: Could not find Oculus client. Set a custom path to the client executable.")
		}
		c.fail(ErrTargetNotFound)
		return ErrTargetNotFound
	}
	c.logf("Found: %s", path)

	addrs, err := c.protect(ctx, path)
	if err != nil {
		c.logf("ERROR: %v", err)
		c.rollback()
		c.fail(err)
		return err
	}

	c.update(func() {
		c.phase = PhaseActive
		c.blocked = addrs
		c.message = "Active - Meta API blocked"
	})
	c.logf("Ready! Stop the session when you're done to restore API access.")
	return nil
}

func (c *Controller) protect(ctx context.Context, path string) ([]netip.Addr, error) {
	if c.proc.IsRunning() {
		c.logf("Stopping Oculus client...")
		c.setMessage("Stopping Oculus...")
		n := c.proc.Terminate(ctx)
		logger.Debug("Terminated %d client process(es)", n)
		if err := sleep(ctx, c.opts.SettleDelay); err != nil {
			return nil, err
		}
		c.logf("Oculus client stopped.")
	}

	domains := c.opts.Domains
	c.logf("Resolving Meta API domains...")
	c.setMessage("Resolving DNS...")
	addrs, err := c.resolver.Resolve(ctx, domains)
	if err != nil {
		return nil, err
	}
	if len(addrs) != len(domains) {
		return nil, fmt.Errorf("resolved %d addresses for %d domains", len(addrs), len(domains))
	}
	for i, domain := range domains {
		c.logf("  %s -> %s", domain, addrs[i])
	}

	c.logf("Creating firewall block rule...")
	c.setMessage("Creating firewall rule...")
	if err := c.rules.Create(RuleName, addrs); err != nil {
		return nil, fmt.Errorf("failed to create firewall rule: %w", err)
	}
	c.logf("Firewall rule created. Meta API is BLOCKED.")

	c.logf("Starting Oculus client...")
	c.setMessage("Starting Oculus...")
	if err := c.proc.Start(path); err != nil {
		return nil, fmt.Errorf("failed to start Oculus client: %w", err)
	}
	c.logf("Oculus client started.")

	return addrs, nil
}

// rollback removes the block rule whether or not it was installed.
func (c *Controller) rollback() {
	if err := c.rules.Remove(RuleName); err != nil {
		logger.Warning("Rollback could not remove firewall rule %s: %v", RuleName, err)
	}
}

func (c *Controller) fail(err error) {
	c.update(func() {
		c.phase = PhaseIdle
		c.blocked = nil
		c.lastError = err
		c.message = "Error: " + err.Error()
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

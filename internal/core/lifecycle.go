package core

import (
	"github.com/user/oculus-guard/internal/logger"
)

// Stop removes the block rule and ends the session. If the rule cannot be
// removed the session stays active with the warning flag set and a
// *RuleRemovalError is returned; Stop may be retried. Stop does nothing unless
// the session is active.
func (c *Controller) Stop() error {
	if !c.transition(PhaseActive, PhaseBusy) {
		logger.Debug("Stop ignored in phase %s", c.Phase())
		return nil
	}

	c.logf("Removing firewall block rule...")
	c.setMessage("Removing firewall rule...")

	if err := c.rules.Remove(RuleName); err != nil {
		rerr := &RuleRemovalError{Rule: RuleName, Err: err}
		c.logf("WARNING: Failed to remove firewall rule: %v", err)
		c.logf("You may need to manually remove '%s' from the firewall.", RuleName)
		c.update(func() {
			c.phase = PhaseActive
			c.warning = true
			c.lastError = rerr
			c.message = "Warning: cleanup failed"
		})
		return rerr
	}

	c.logf("Firewall rule removed. Meta API access restored.")
	c.update(func() {
		c.phase = PhaseIdle
		c.blocked = nil
		c.warning = false
		c.lastError = nil
		c.message = "Stopped - API access restored"
	})
	return nil
}

// ForceCleanup removes the block rule regardless of phase. It is meant for
// application shutdown. An active session is ended if the removal succeeds.
func (c *Controller) ForceCleanup() {
	if err := c.rules.Remove(RuleName); err != nil {
		logger.Warning("Force cleanup could not remove firewall rule %s: %v", RuleName, err)
		return
	}
	c.mu.RLock()
	active := c.phase == PhaseActive
	c.mu.RUnlock()
	if active {
		c.update(func() {
			c.phase = PhaseIdle
			c.blocked = nil
			c.warning = false
			c.message = "Stopped - API access restored"
		})
	}
}

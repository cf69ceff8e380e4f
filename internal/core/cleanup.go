package core

import (
	"github.com/user/oculus-guard/internal/firewall"
	"github.com/user/oculus-guard/internal/logger"
)

// CleanupRules removes the current and legacy block rules if present. It is
// shared by startup cleanup and the process exit hook.
func CleanupRules(store firewall.RuleStore) []firewall.CleanupResult {
	return firewall.RemoveIfExists(store, RuleName, LegacyRuleName)
}

func (c *Controller) cleanupStale() {
	for _, res := range CleanupRules(c.rules) {
		switch {
		case res.Err != nil:
			logger.Warning("Failed to remove stale firewall rule %s: %v", res.Name, res.Err)
		case !res.Found:
			logger.Debug("No stale firewall rule %s", res.Name)
		case res.Name == LegacyRuleName:
			c.logf("Cleaned up legacy firewall rule from older version.")
		default:
			c.logf("Cleaned up stale firewall rule from previous session.")
		}
	}
}

package core

import (
	"fmt"
	"strings"

	"github.com/user/oculus-guard/internal/logger"
)

// OverridePath returns the custom client path, or "" for auto-detect.
func (c *Controller) OverridePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.overridePath
}

// SetOverridePath makes Launch use path instead of auto-detection and saves
// it. The path is checked when Launch runs, not here. A blank path clears the
// override.
func (c *Controller) SetOverridePath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return c.ClearOverridePath()
	}

	c.update(func() { c.overridePath = path })
	if err := c.settings.SaveOverridePath(path); err != nil {
		logger.Error("Failed to save settings: %v", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	c.logf("Custom Oculus path set: %s", path)
	return nil
}

// ClearOverridePath returns Launch to auto-detection and saves the change.
func (c *Controller) ClearOverridePath() error {
	c.update(func() { c.overridePath = "" })
	if err := c.settings.SaveOverridePath(""); err != nil {
		logger.Error("Failed to save settings: %v", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	c.logf("Custom path cleared. Using auto-detect.")
	return nil
}

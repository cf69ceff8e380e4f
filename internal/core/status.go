package core

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/user/oculus-guard/internal/logger"
)

// Status is a snapshot of the session.
type Status struct {
	Phase            Phase
	Message          string
	BlockedAddresses []netip.Addr
	OverridePath     string
	Warning          bool
	Error            string
}

// BlockedAddressesDisplay joins the blocked addresses for display.
func (s Status) BlockedAddressesDisplay() string {
	parts := make([]string, len(s.BlockedAddresses))
	for i, a := range s.BlockedAddresses {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := Status{
		Phase:            c.phase,
		Message:          c.message,
		BlockedAddresses: append([]netip.Addr(nil), c.blocked...),
		OverridePath:     c.overridePath,
		Warning:          c.warning,
	}
	if c.lastError != nil {
		status.Error = c.lastError.Error()
	}
	return status
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Log returns a copy of the session log.
func (c *Controller) Log() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.log...)
}

// broadcastStatus sends the current status to every listener.
func (c *Controller) broadcastStatus() {
	c.mu.RLock()
	listeners := append([]StatusListener(nil), c.statusListeners...)
	c.mu.RUnlock()

	status := c.Status()
	for _, fn := range listeners {
		fn(status)
	}
}

// update applies fn under the lock and then broadcasts.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	c.mu.Unlock()
	c.broadcastStatus()
}

func (c *Controller) setMessage(msg string) {
	c.update(func() { c.message = msg })
}

// logf appends a timestamped line to the session log and mirrors it to the
// log file.
func (c *Controller) logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Info("%s", msg)

	c.mu.Lock()
	line := fmt.Sprintf("[%s] %s", c.opts.Now().Format("15:04:05"), msg)
	c.log = append(c.log, line)
	listeners := append([]LogListener(nil), c.logListeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(line)
	}
}

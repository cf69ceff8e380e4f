package config

import (
	"fmt"
	"net"
)

// Validate validates the runtime options.
func (e *Env) Validate() error {
	if e.DNSAttempts < 1 {
		return fmt.Errorf("OCULUS_GUARD_DNS_ATTEMPTS must be at least 1")
	}
	if e.DNSTimeout <= 0 {
		return fmt.Errorf("OCULUS_GUARD_DNS_TIMEOUT must be positive")
	}
	if e.SettleDelay < 0 {
		return fmt.Errorf("OCULUS_GUARD_SETTLE_DELAY cannot be negative")
	}
	if e.ExitTimeout <= 0 {
		return fmt.Errorf("OCULUS_GUARD_EXIT_TIMEOUT must be positive")
	}
	for _, server := range e.DNSServers {
		host := server
		if h, _, err := net.SplitHostPort(server); err == nil {
			host = h
		}
		if net.ParseIP(host) == nil {
			return fmt.Errorf("invalid DNS server: %s", server)
		}
	}
	return nil
}

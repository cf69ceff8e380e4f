//go:build !windows && !linux && !darwin

package firewall

import "net/netip"

// Default returns the rule store for this platform.
func Default() RuleStore {
	return unsupported{}
}

type unsupported struct{}

func (unsupported) Create(string, []netip.Addr) error { return ErrBackendUnavailable }
func (unsupported) Remove(string) error               { return ErrBackendUnavailable }
func (unsupported) Exists(string) bool                { return false }

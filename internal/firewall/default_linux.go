//go:build linux

package firewall

// Default returns the rule store for this platform.
func Default() RuleStore {
	return NewIptables(nil)
}

//go:build windows

package firewall

// Default returns the rule store for this platform.
func Default() RuleStore {
	return NewNetsh(nil)
}

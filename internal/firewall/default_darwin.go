//go:build darwin

package firewall

// Default returns the rule store for this platform.
func Default() RuleStore {
	return NewPF(nil)
}

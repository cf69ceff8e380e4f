package firewall

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Netsh manages the rule through "netsh advfirewall" (Windows Firewall).
type Netsh struct {
	run Runner
}

// NewNetsh returns a Windows Firewall rule store. A nil runner executes netsh.
func NewNetsh(run Runner) *Netsh {
	if run == nil {
		run = execRunner
	}
	return &Netsh{run: run}
}

// Create adds an outbound block rule on every profile.
func (n *Netsh) Create(name string, addrs []netip.Addr) error {
	if err := validateAddrs(addrs); err != nil {
		return err
	}
	if err := n.Remove(name); err != nil {
		if errors.Is(err, ErrBackendUnavailable) || n.Exists(name) {
			return errors.Wrapf(err, "existing firewall rule %s could not be replaced", name)
		}
	}

	_, err := n.run("netsh", "advfirewall", "firewall", "add", "rule",
		"name="+name,
		"dir=out",
		"action=block",
		"protocol=TCP",
		"remoteport="+strconv.Itoa(BlockedPort),
		"remoteip="+joinAddrs(addrs, ","),
		"profile=any",
		"enable=yes",
		fmt.Sprintf("description=%s", ruleDescription))
	if err != nil {
		return errors.Wrapf(err, "failed to add firewall rule %s", name)
	}
	return nil
}

// Remove deletes every rule with the name. netsh reports an absent rule as
// a failure, which is swallowed here.
func (n *Netsh) Remove(name string) error {
	out, err := n.run("netsh", "advfirewall", "firewall", "delete", "rule", "name="+name)
	if err != nil {
		if strings.Contains(string(out), "No rules match") {
			return nil
		}
		return errors.Wrapf(err, "failed to delete firewall rule %s", name)
	}
	return nil
}

// Exists reports whether netsh can show a rule with the name.
func (n *Netsh) Exists(name string) bool {
	_, err := n.run("netsh", "advfirewall", "firewall", "show", "rule", "name="+name)
	return err == nil
}

var _ RuleStore = (*Netsh)(nil)

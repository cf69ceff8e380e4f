package firewall

import (
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// pf evaluates anchors below com.apple/* from the stock macOS ruleset, so a
// rule loaded there takes effect without touching /etc/pf.conf.
const pfAnchorPrefix = "com.apple/oculus-guard."

// PF manages the rule as a pf anchor on macOS.
type PF struct {
	run     Runner
	tempDir string
}

// NewPF returns a macOS rule store. A nil runner executes pfctl.
func NewPF(run Runner) *PF {
	if run == nil {
		run = execRunner
	}
	return &PF{run: run, tempDir: os.TempDir()}
}

func pfAnchor(name string) string {
	return pfAnchorPrefix + name
}

func pfRules(addrs []netip.Addr) string {
	return fmt.Sprintf("block drop out quick proto tcp from any to { %s } port %d\n",
		joinAddrs(addrs, ", "), BlockedPort)
}

// Create loads the anchor with a single block rule and enables pf.
func (p *PF) Create(name string, addrs []netip.Addr) error {
	if err := validateAddrs(addrs); err != nil {
		return err
	}
	if err := p.Remove(name); err != nil {
		return err
	}

	f, err := os.CreateTemp(p.tempDir, "oculus-guard-*.pf")
	if err != nil {
		return errors.Wrap(err, "failed to write pf rules")
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(pfRules(addrs)); err != nil {
		f.Close()
		return errors.Wrap(err, "failed to write pf rules")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "failed to write pf rules")
	}

	if _, err := p.run("pfctl", "-a", pfAnchor(name), "-f", f.Name()); err != nil {
		return errors.Wrapf(err, "failed to load anchor %s", pfAnchor(name))
	}
	// -E fails harmlessly when pf is already enabled.
	p.run("pfctl", "-E")
	return nil
}

// Remove flushes the anchor's rules.
func (p *PF) Remove(name string) error {
	if _, err := p.run("pfctl", "-a", pfAnchor(name), "-F", "rules"); err != nil {
		return errors.Wrapf(err, "failed to flush anchor %s", pfAnchor(name))
	}
	return nil
}

// Exists reports whether the anchor holds any rules.
func (p *PF) Exists(name string) bool {
	out, err := p.run("pfctl", "-a", pfAnchor(name), "-s", "rules")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) != ""
}

var _ RuleStore = (*PF)(nil)

package firewall

import (
	"net/netip"
	"strconv"

	"github.com/pkg/errors"

	"github.com/user/oculus-guard/internal/logger"
)

const (
	outputChain = "OUTPUT"
	// iptables refuses chain names longer than this.
	maxChainName = 28
)

// Iptables manages the rule as a dedicated chain jumped to from OUTPUT. The
// rule name doubles as the chain name.
type Iptables struct {
	run Runner
}

// NewIptables returns a Linux rule store. A nil runner executes iptables.
func NewIptables(run Runner) *Iptables {
	if run == nil {
		run = execRunner
	}
	return &Iptables{run: run}
}

func chainName(name string) (string, error) {
	if name == "" || len(name) > maxChainName {
		return "", errors.Errorf("rule name %q is not a valid iptables chain name", name)
	}
	return name, nil
}

// Create builds the chain with one REJECT entry per address and hooks it
// into OUTPUT.
func (t *Iptables) Create(name string, addrs []netip.Addr) error {
	if err := validateAddrs(addrs); err != nil {
		return err
	}
	chain, err := chainName(name)
	if err != nil {
		return errors.Wrap(ErrInvalidArgument, err.Error())
	}
	if err := t.Remove(name); err != nil {
		return err
	}

	if _, err := t.run("iptables", "-N", chain); err != nil {
		return errors.Wrapf(err, "failed to create chain %s", chain)
	}
	for _, addr := range addrs {
		_, err := t.run("iptables", "-A", chain,
			"-d", addr.String(),
			"-p", "tcp", "--dport", strconv.Itoa(BlockedPort),
			"-j", "REJECT")
		if err != nil {
			t.rollback(name)
			return errors.Wrapf(err, "failed to block %s", addr)
		}
	}
	if _, err := t.run("iptables", "-I", outputChain, "1", "-j", chain); err != nil {
		t.rollback(name)
		return errors.Wrapf(err, "failed to hook chain %s into %s", chain, outputChain)
	}
	return nil
}

func (t *Iptables) rollback(name string) {
	if err := t.Remove(name); err != nil {
		logger.Warning("Rollback could not remove chain for %s: %v", name, err)
	}
}

// Remove unhooks, flushes and deletes the chain if it exists.
func (t *Iptables) Remove(name string) error {
	chain, err := chainName(name)
	if err != nil {
		return errors.Wrap(ErrInvalidArgument, err.Error())
	}
	if _, err := t.run("iptables", "-S", chain); err != nil {
		if errors.Is(err, ErrBackendUnavailable) {
			return err
		}
		return nil
	}

	// A missing jump is fine; the chain may have been unhooked by hand.
	t.run("iptables", "-D", outputChain, "-j", chain)
	if _, err := t.run("iptables", "-F", chain); err != nil {
		return errors.Wrapf(err, "failed to flush chain %s", chain)
	}
	if _, err := t.run("iptables", "-X", chain); err != nil {
		return errors.Wrapf(err, "failed to delete chain %s", chain)
	}
	return nil
}

// Exists reports whether the chain is present.
func (t *Iptables) Exists(name string) bool {
	chain, err := chainName(name)
	if err != nil {
		return false
	}
	_, err = t.run("iptables", "-S", chain)
	return err == nil
}

var _ RuleStore = (*Iptables)(nil)

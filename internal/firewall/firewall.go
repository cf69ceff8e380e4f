// Package firewall installs and removes the named outbound block rule that
// cuts the Oculus client off from the Meta API.
package firewall

import (
	"net/netip"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/user/oculus-guard/internal/logger"
	"github.com/user/oculus-guard/internal/procutil"
)

// BlockedPort is the remote TCP port every rule blocks.
const BlockedPort = 443

const ruleDescription = "Temporary Oculus API block - created by oculus-guard"

var (
	// ErrBackendUnavailable means the platform firewall could not be reached.
	ErrBackendUnavailable = errors.New("firewall backend unavailable")
	// ErrInvalidArgument is returned when a rule is requested for no addresses.
	ErrInvalidArgument = errors.New("no remote addresses provided")
)

// RuleStore manages a single named rule blocking outbound TCP/443 to a set of
// addresses.
type RuleStore interface {
	// Create installs the rule, replacing any rule with the same name.
	Create(name string, addrs []netip.Addr) error
	// Remove deletes the rule. Removing an absent rule is not an error.
	Remove(name string) error
	// Exists reports whether the rule is installed. Backend errors read as false.
	Exists(name string) bool
}

// Runner executes an external command and returns its combined output.
type Runner func(name string, args ...string) ([]byte, error)

func execRunner(name string, args ...string) ([]byte, error) {
	logger.Debug("[cmd] %s %s", name, strings.Join(args, " "))
	out, err := procutil.HideWindow(exec.Command(name, args...)).CombinedOutput()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return out, errors.Wrapf(ErrBackendUnavailable, "%s not found", name)
		}
		logger.Debug("[cmd error] %s: %v: %s", name, err, strings.TrimSpace(string(out)))
		return out, errors.Wrapf(err, "%s failed: %s", name, strings.TrimSpace(string(out)))
	}
	return out, nil
}

func validateAddrs(addrs []netip.Addr) error {
	if len(addrs) == 0 {
		return ErrInvalidArgument
	}
	for _, addr := range addrs {
		if !addr.IsValid() {
			return errors.Wrap(ErrInvalidArgument, "invalid address in set")
		}
	}
	return nil
}

func joinAddrs(addrs []netip.Addr, sep string) string {
	parts := make([]string, len(addrs))
	for i, addr := range addrs {
		parts[i] = addr.String()
	}
	return strings.Join(parts, sep)
}

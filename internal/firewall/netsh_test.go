package firewall

import (
	"net/netip"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAddrs = []netip.Addr{
	netip.MustParseAddr("1.2.3.4"),
	netip.MustParseAddr("5.6.7.8"),
}

func TestNetshCreateReplacesExistingRule(t *testing.T) {
	run := newRunnerMock()
	store := NewNetsh(run.Run)

	err := store.Create("OculusLauncher_Block", testAddrs)
	require.NoError(t, err)

	require.Len(t, run.calls, 2)
	assert.Equal(t, "netsh advfirewall firewall delete rule name=OculusLauncher_Block", run.calls[0])
	assert.Equal(t,
		"netsh advfirewall firewall add rule name=OculusLauncher_Block dir=out action=block protocol=TCP "+
			"remoteport=443 remoteip=1.2.3.4,5.6.7.8 profile=any enable=yes "+
			"description=Temporary Oculus API block - created by oculus-guard",
		run.calls[1])
}

func TestNetshCreateKeepsSingleRuleWhenDeleteFails(t *testing.T) {
	run := newRunnerMock()
	run.on("netsh advfirewall firewall delete rule name=rule", "An error occurred (locked).", errors.New("exit status 1"))
	store := NewNetsh(run.Run)

	err := store.Create("rule", testAddrs)
	require.Error(t, err)
	assert.Equal(t, []string{
		"netsh advfirewall firewall delete rule name=rule",
		"netsh advfirewall firewall show rule name=rule",
	}, run.calls)
}

func TestNetshCreateAddsWhenFailedDeleteLeftNoRule(t *testing.T) {
	run := newRunnerMock()
	run.on("netsh advfirewall firewall delete rule name=rule", "Keine Regeln entsprechen", errors.New("exit status 1"))
	run.on("netsh advfirewall firewall show rule name=rule", "Keine Regeln entsprechen", errors.New("exit status 1"))
	store := NewNetsh(run.Run)

	require.NoError(t, store.Create("rule", testAddrs))
	require.Len(t, run.calls, 3)
	assert.Contains(t, run.calls[2], "netsh advfirewall firewall add rule name=rule")
}

func TestNetshCreateRejectsEmptyAddressSet(t *testing.T) {
	run := newRunnerMock()
	store := NewNetsh(run.Run)

	err := store.Create("OculusLauncher_Block", nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, run.calls)
}

func TestNetshCreateFailsWhenNetshIsMissing(t *testing.T) {
	run := newRunnerMock()
	run.on("netsh advfirewall firewall delete rule name=rule", "", errors.Wrap(ErrBackendUnavailable, "netsh not found"))
	store := NewNetsh(run.Run)

	err := store.Create("rule", testAddrs)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Len(t, run.calls, 1)
}

func TestNetshRemoveToleratesAbsentRule(t *testing.T) {
	run := newRunnerMock()
	run.on("netsh advfirewall firewall delete rule name=rule",
		"\nNo rules match the specified criteria.\n", errors.New("exit status 1"))
	store := NewNetsh(run.Run)

	assert.NoError(t, store.Remove("rule"))
}

func TestNetshRemoveReportsOtherFailures(t *testing.T) {
	run := newRunnerMock()
	run.on("netsh advfirewall firewall delete rule name=rule",
		"The requested operation requires elevation (Run as administrator).", errors.New("exit status 1"))
	store := NewNetsh(run.Run)

	assert.Error(t, store.Remove("rule"))
}

func TestNetshExists(t *testing.T) {
	run := newRunnerMock()
	run.on("netsh advfirewall firewall show rule name=missing", "No rules match", errors.New("exit status 1"))
	store := NewNetsh(run.Run)

	assert.True(t, store.Exists("present"))
	assert.False(t, store.Exists("missing"))
}

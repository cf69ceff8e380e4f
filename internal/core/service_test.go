package core

import (
	"context"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/oculus-guard/internal/config"
	"github.com/user/oculus-guard/internal/firewall"
	"github.com/user/oculus-guard/internal/process"
	"github.com/user/oculus-guard/internal/resolver"
)

const clientPath = `C:\Program Files\Oculus\Support\oculus-client\OculusClient.exe`

var testDomains = []string{"a.example.com", "b.example.com"}

type harness struct {
	rec      *recorder
	rules    *fakeRules
	proc     *fakeProcess
	resolver *fakeResolver
	settings *settingsMock
}

func newHarness() *harness {
	rec := &recorder{}
	settings := &settingsMock{}
	settings.On("OverridePath").Return("")
	return &harness{
		rec:   rec,
		rules: newFakeRules(rec),
		proc:  &fakeProcess{rec: rec, installed: clientPath},
		resolver: &fakeResolver{
			rec:   rec,
			addrs: []netip.Addr{netip.MustParseAddr("1.2.3.4"), netip.MustParseAddr("5.6.7.8")},
		},
		settings: settings,
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 14, 3, 9, 0, time.Local)
}

func (h *harness) controller() *Controller {
	c := New(h.rules, h.proc, h.resolver, h.settings, Options{
		Domains: testDomains,
		Now:     fixedClock,
	})
	h.rec.reset()
	return c
}

func TestLaunchSuccess(t *testing.T) {
	h := newHarness()
	c := h.controller()

	require.NoError(t, c.Launch(context.Background()))

	assert.Equal(t, []string{"discover", "resolve", "create " + RuleName, "start " + clientPath}, h.rec.list())
	assert.Equal(t, h.resolver.addrs, h.rules.rules[RuleName])

	status := c.Status()
	assert.Equal(t, PhaseActive, status.Phase)
	assert.Equal(t, "1.2.3.4, 5.6.7.8", status.BlockedAddressesDisplay())
	assert.Equal(t, "Active - Meta API blocked", status.Message)
	assert.False(t, status.Warning)
	assert.Empty(t, status.Error)

	assert.Equal(t, []string{
		"[14:03:09] Searching for Oculus client...",
		"[14:03:09] Found: " + clientPath,
		"[14:03:09] Resolving Meta API domains...",
		"[14:03:09]   a.example.com -> 1.2.3.4",
		"[14:03:09]   b.example.com -> 5.6.7.8",
		"[14:03:09] Creating firewall block rule...",
		"[14:03:09] Firewall rule created. Meta API is BLOCKED.",
		"[14:03:09] Starting Oculus client...",
		"[14:03:09] Oculus client started.",
		"[14:03:09] Ready! Stop the session when you're done to restore API access.",
	}, c.Log())
}

func TestLaunchStopsRunningClientFirst(t *testing.T) {
	h := newHarness()
	h.proc.running = true
	c := h.controller()

	require.NoError(t, c.Launch(context.Background()))

	assert.Equal(t, []string{"discover", "terminate", "resolve", "create " + RuleName, "start " + clientPath}, h.rec.list())
	assert.Contains(t, c.Log(), "[14:03:09] Oculus client stopped.")
}

func TestLaunchTargetNotFound(t *testing.T) {
	h := newHarness()
	h.proc.installed = ""
	c := h.controller()

	err := c.Launch(context.Background())
	assert.ErrorIs(t, err, ErrTargetNotFound)

	assert.Equal(t, []string{"discover"}, h.rec.list())
	assert.Empty(t, h.rules.rules)

	status := c.Status()
	assert.Equal(t, PhaseIdle, status.Phase)
	assert.Equal(t, "Error: Oculus client not found", status.Message)
	assert.Contains(t, c.Log(), "[14:03:09] ERROR: Could not find Oculus client. Set a custom path to the client executable.")
}

func TestLaunchMissingCustomPath(t *testing.T) {
	h := newHarness()
	h.proc.installed = ""
	h.settings = &settingsMock{}
	h.settings.On("OverridePath").Return(`D:\Oculus\client.exe`)
	c := h.controller()

	assert.ErrorIs(t, c.Launch(context.Background()), ErrTargetNotFound)
	assert.Equal(t, []string{`D:\Oculus\client.exe`}, h.proc.overrides)
	assert.Contains(t, c.Log(), `[14:03:09] ERROR: Custom path not found: D:\Oculus\client.exe`)
}

func TestLaunchResolutionFailure(t *testing.T) {
	h := newHarness()
	h.resolver.err = &resolver.ResolutionFailedError{Domain: "b.example.com", Err: errors.New("no IPv4 address")}
	c := h.controller()

	err := c.Launch(context.Background())
	var rf *resolver.ResolutionFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, "b.example.com", rf.Domain)

	assert.Equal(t, []string{"discover", "resolve", "remove " + RuleName}, h.rec.list())
	assert.False(t, h.rules.Exists(RuleName))
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Empty(t, c.Status().BlockedAddresses)
}

func TestLaunchAddressCountMismatch(t *testing.T) {
	h := newHarness()
	h.resolver.addrs = h.resolver.addrs[:1]
	c := h.controller()

	require.Error(t, c.Launch(context.Background()))
	assert.False(t, h.rules.Exists(RuleName))
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestLaunchRuleCreationFailure(t *testing.T) {
	h := newHarness()
	h.rules.createErr = firewall.ErrBackendUnavailable
	c := h.controller()

	err := c.Launch(context.Background())
	assert.ErrorIs(t, err, firewall.ErrBackendUnavailable)
	assert.Equal(t, []string{"discover", "resolve", "create " + RuleName, "remove " + RuleName}, h.rec.list())
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestLaunchStartFailureRollsBack(t *testing.T) {
	h := newHarness()
	h.proc.startErr = errors.New("access is denied")
	c := h.controller()

	err := c.Launch(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{"discover", "resolve", "create " + RuleName, "start " + clientPath, "remove " + RuleName}, h.rec.list())
	assert.False(t, h.rules.Exists(RuleName))

	status := c.Status()
	assert.Equal(t, PhaseIdle, status.Phase)
	assert.Empty(t, status.BlockedAddresses)
	assert.Equal(t, "Error: failed to start Oculus client: access is denied", status.Message)
	assert.Contains(t, c.Log(), "[14:03:09] ERROR: failed to start Oculus client: access is denied")
}

func TestLaunchCancelledDuringSettle(t *testing.T) {
	h := newHarness()
	h.proc.running = true
	c := New(h.rules, h.proc, h.resolver, h.settings, Options{Domains: testDomains, SettleDelay: time.Hour})
	h.rec.reset()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Launch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"discover", "terminate", "remove " + RuleName}, h.rec.list())
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestLaunchIgnoredWhileActive(t *testing.T) {
	h := newHarness()
	c := h.controller()
	require.NoError(t, c.Launch(context.Background()))
	h.rec.reset()

	require.NoError(t, c.Launch(context.Background()))
	assert.Empty(t, h.rec.list())
	assert.Equal(t, PhaseActive, c.Phase())
}

func TestStopSuccess(t *testing.T) {
	h := newHarness()
	c := h.controller()
	require.NoError(t, c.Launch(context.Background()))
	h.rec.reset()

	require.NoError(t, c.Stop())

	assert.Equal(t, []string{"remove " + RuleName}, h.rec.list())
	assert.False(t, h.rules.Exists(RuleName))
	status := c.Status()
	assert.Equal(t, PhaseIdle, status.Phase)
	assert.Empty(t, status.BlockedAddressesDisplay())
	assert.Equal(t, "Stopped - API access restored", status.Message)
}

func TestStopWhenNotActiveIsNoop(t *testing.T) {
	h := newHarness()
	c := h.controller()

	require.NoError(t, c.Stop())
	require.NoError(t, c.Stop())
	assert.Empty(t, h.rec.list())
	assert.Empty(t, c.Log())
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestStopFailureKeepsSessionActive(t *testing.T) {
	h := newHarness()
	c := h.controller()
	require.NoError(t, c.Launch(context.Background()))

	h.rules.removeErr = errors.New("netsh failed")
	err := c.Stop()

	var rerr *RuleRemovalError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, RuleName, rerr.Rule)

	status := c.Status()
	assert.Equal(t, PhaseActive, status.Phase)
	assert.True(t, status.Warning)
	assert.Equal(t, "Warning: cleanup failed", status.Message)
	assert.Equal(t, "1.2.3.4, 5.6.7.8", status.BlockedAddressesDisplay())
	assert.Contains(t, c.Log(), "[14:03:09] You may need to manually remove 'OculusLauncher_Block' from the firewall.")

	h.rules.removeErr = nil
	require.NoError(t, c.Stop())
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.False(t, c.Status().Warning)
}

func TestRelaunchAfterStop(t *testing.T) {
	h := newHarness()
	c := h.controller()

	require.NoError(t, c.Launch(context.Background()))
	require.NoError(t, c.Stop())
	require.NoError(t, c.Launch(context.Background()))
	assert.Equal(t, PhaseActive, c.Phase())
	assert.True(t, h.rules.Exists(RuleName))
}

func TestStatusListenersSeeBusyThenActive(t *testing.T) {
	h := newHarness()
	c := h.controller()

	var phases []Phase
	c.AddStatusListener(func(s Status) {
		if len(phases) == 0 || phases[len(phases)-1] != s.Phase {
			phases = append(phases, s.Phase)
		}
	})
	var lines []string
	c.AddLogListener(func(line string) { lines = append(lines, line) })

	require.NoError(t, c.Launch(context.Background()))
	require.NoError(t, c.Stop())

	assert.Equal(t, []Phase{PhaseBusy, PhaseActive, PhaseBusy, PhaseIdle}, phases)
	assert.Equal(t, c.Log(), lines)
}

func TestStartupCleanup(t *testing.T) {
	h := newHarness()
	h.rules.rules[RuleName] = nil
	h.rules.rules[LegacyRuleName] = nil

	c := New(h.rules, h.proc, h.resolver, h.settings, Options{Domains: testDomains, Now: fixedClock})

	assert.Empty(t, h.rules.rules)
	assert.Equal(t, []string{
		"[14:03:09] Cleaned up stale firewall rule from previous session.",
		"[14:03:09] Cleaned up legacy firewall rule from older version.",
	}, c.Log())
}

func TestStartupCleanupWithoutStaleRules(t *testing.T) {
	h := newHarness()
	c := New(h.rules, h.proc, h.resolver, h.settings, Options{Domains: testDomains})
	c2 := New(h.rules, h.proc, h.resolver, h.settings, Options{Domains: testDomains})

	assert.Empty(t, h.rec.list())
	assert.Empty(t, c.Log())
	assert.Empty(t, c2.Log())
}

func TestStartupCleanupFailureIsQuiet(t *testing.T) {
	h := newHarness()
	h.rules.rules[RuleName] = nil
	h.rules.removeErr = errors.New("denied")

	c := New(h.rules, h.proc, h.resolver, h.settings, Options{Domains: testDomains})
	assert.Empty(t, c.Log())
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestCleanupRules(t *testing.T) {
	h := newHarness()
	h.rules.rules[LegacyRuleName] = nil

	results := CleanupRules(h.rules)
	require.Len(t, results, 2)
	assert.False(t, results[0].Found)
	assert.True(t, results[1].Found)
	assert.NoError(t, results[1].Err)

	for _, res := range CleanupRules(h.rules) {
		assert.False(t, res.Found)
		assert.NoError(t, res.Err)
	}
}

func TestForceCleanup(t *testing.T) {
	h := newHarness()
	c := h.controller()
	require.NoError(t, c.Launch(context.Background()))

	c.ForceCleanup()
	assert.False(t, h.rules.Exists(RuleName))
	assert.Equal(t, PhaseIdle, c.Phase())

	h.rules.removeErr = errors.New("denied")
	assert.NotPanics(t, c.ForceCleanup)
}

func TestOverridePath(t *testing.T) {
	h := newHarness()
	h.settings.On("SaveOverridePath", `D:\Oculus\OculusClient.exe`).Return(nil).Once()
	h.settings.On("SaveOverridePath", "").Return(nil).Once()
	c := h.controller()

	require.NoError(t, c.SetOverridePath(`  D:\Oculus\OculusClient.exe `))
	assert.Equal(t, `D:\Oculus\OculusClient.exe`, c.Status().OverridePath)

	require.NoError(t, c.Launch(context.Background()))
	assert.Equal(t, []string{`D:\Oculus\OculusClient.exe`}, h.proc.overrides)

	require.NoError(t, c.ClearOverridePath())
	assert.Equal(t, "", c.OverridePath())

	assert.Equal(t, []string{
		`[14:03:09] Custom Oculus path set: D:\Oculus\OculusClient.exe`,
	}, c.Log()[:1])
	assert.Equal(t, "[14:03:09] Custom path cleared. Using auto-detect.", c.Log()[len(c.Log())-1])
	h.settings.AssertExpectations(t)
}

func TestOverridePathSaveFailure(t *testing.T) {
	h := newHarness()
	h.settings.On("SaveOverridePath", "/opt/oculus/client").Return(errors.New("read-only"))
	c := h.controller()

	assert.Error(t, c.SetOverridePath("/opt/oculus/client"))
	assert.Equal(t, "/opt/oculus/client", c.OverridePath())
}

func TestOverridePathSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "OculusClient.exe")
	require.NoError(t, os.WriteFile(exe, nil, 0644))
	settingsPath := filepath.Join(dir, "settings.yaml")

	h := newHarness()
	first := New(h.rules, h.proc, h.resolver, config.Open(settingsPath), DefaultOptions())
	require.NoError(t, first.SetOverridePath(exe))

	restarted := New(h.rules, h.proc, h.resolver, config.Open(settingsPath), DefaultOptions())
	assert.Equal(t, exe, restarted.OverridePath())

	path, ok := process.NewManager().DiscoverPath(restarted.OverridePath())
	require.True(t, ok)
	assert.Equal(t, exe, path)
}

// Package core runs the protection session: it blocks the Meta API while the
// Oculus client runs and lifts the block afterward.
package core

import (
	"context"
	"net/netip"
	"sync"
	"time"

	"github.com/user/oculus-guard/internal/firewall"
)

// Firewall rule names. The legacy name was used by older releases and is only
// ever removed.
const (
	RuleName       = "OculusLauncher_Block"
	LegacyRuleName = "EchoLauncher_OculusBlock"
)

// BlockedDomains are the Meta API hosts cut off during a session, in order.
var BlockedDomains = []string{
	"graph.oculus.com",
	"www.oculus.com",
}

// DefaultSettleDelay is how long Launch waits after stopping the client.
const DefaultSettleDelay = 2 * time.Second

// Phase is the session state.
type Phase string

const (
	PhaseIdle   Phase = "idle"
	PhaseBusy   Phase = "busy"
	PhaseActive Phase = "active"
)

// ProcessController finds, stops and starts the Oculus client.
type ProcessController interface {
	DiscoverPath(override string) (string, bool)
	IsRunning() bool
	Terminate(ctx context.Context) int
	Start(path string) error
}

// AddressResolver resolves each domain to one IPv4 address, in order.
type AddressResolver interface {
	Resolve(ctx context.Context, domains []string) ([]netip.Addr, error)
}

// SettingsStore persists the custom executable path.
type SettingsStore interface {
	OverridePath() string
	SaveOverridePath(path string) error
}

// Options tune a Controller. Zero values select the defaults, except that a
// zero SettleDelay disables the wait.
type Options struct {
	Domains     []string
	SettleDelay time.Duration
	Now         func() time.Time
}

// DefaultOptions returns the options used by the shipped front ends.
func DefaultOptions() Options {
	return Options{
		Domains:     BlockedDomains,
		SettleDelay: DefaultSettleDelay,
		Now:         time.Now,
	}
}

// StatusListener is called after every status change.
type StatusListener func(status Status)

// LogListener is called with every new session log line.
type LogListener func(line string)

// Controller owns the session and drives the firewall, resolver and process
// collaborators through Launch and Stop.
type Controller struct {
	mu       sync.RWMutex
	rules    firewall.RuleStore
	proc     ProcessController
	resolver AddressResolver
	settings SettingsStore
	opts     Options

	phase        Phase
	blocked      []netip.Addr
	overridePath string
	message      string
	warning      bool
	lastError    error
	log          []string

	statusListeners []StatusListener
	logListeners    []LogListener
}

// New creates the controller, loads the saved override path and removes any
// block rule left behind by an earlier run.
func New(rules firewall.RuleStore, proc ProcessController, resolver AddressResolver, settings SettingsStore, opts Options) *Controller {
	if len(opts.Domains) == 0 {
		opts.Domains = BlockedDomains
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SettleDelay < 0 {
		opts.SettleDelay = 0
	}

	c := &Controller{
		rules:        rules,
		proc:         proc,
		resolver:     resolver,
		settings:     settings,
		opts:         opts,
		phase:        PhaseIdle,
		message:      "Ready",
		overridePath: settings.OverridePath(),
	}
	c.cleanupStale()
	return c
}

// AddStatusListener registers fn for status changes.
func (c *Controller) AddStatusListener(fn StatusListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusListeners = append(c.statusListeners, fn)
}

// AddLogListener registers fn for new session log lines.
func (c *Controller) AddLogListener(fn LogListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logListeners = append(c.logListeners, fn)
}

// transition moves from one phase to another if the session is in from.
func (c *Controller) transition(from, to Phase) bool {
	c.mu.Lock()
	if c.phase != from {
		c.mu.Unlock()
		return false
	}
	c.phase = to
	c.mu.Unlock()
	c.broadcastStatus()
	return true
}

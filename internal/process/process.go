// Package process finds, stops and starts the Oculus PC client.
package process

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/user/oculus-guard/internal/logger"
)

// Process names of the Oculus client, without the .exe suffix.
const (
	ClientName        = "OculusClient"
	GenericClientName = "client"
)

const (
	defaultExitTimeout  = 5 * time.Second
	defaultPollInterval = 100 * time.Millisecond
)

// VerifyFunc decides whether a process found by name really is the Oculus
// client. exe is empty when the executable path could not be read.
type VerifyFunc func(name, exe string) bool

// VendorVerifier trusts every process except those named like one of the
// ambiguous names, which must have vendor somewhere in their executable path.
func VendorVerifier(vendor string, ambiguous ...string) VerifyFunc {
	vendor = strings.ToLower(vendor)
	return func(name, exe string) bool {
		for _, a := range ambiguous {
			if strings.EqualFold(name, a) {
				return exe != "" && strings.Contains(strings.ToLower(exe), vendor)
			}
		}
		return true
	}
}

// Proc is the view of a running process the manager works with.
type Proc interface {
	ID() int32
	NameWithContext(ctx context.Context) (string, error)
	ExeWithContext(ctx context.Context) (string, error)
	KillWithContext(ctx context.Context) error
	IsRunningWithContext(ctx context.Context) (bool, error)
}

type systemProc struct {
	*process.Process
}

func (p systemProc) ID() int32 { return p.Pid }

func listSystem(ctx context.Context) ([]Proc, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list processes")
	}
	out := make([]Proc, len(procs))
	for i, p := range procs {
		out[i] = systemProc{p}
	}
	return out, nil
}

// Manager controls the Oculus client process.
type Manager struct {
	names        []string
	exeNames     []string
	subPath      string
	fallbackDirs []string
	baseDir      func() (string, bool)
	verify       VerifyFunc
	exitTimeout  time.Duration
	pollInterval time.Duration
	list         func(ctx context.Context) ([]Proc, error)
	start        func(path string) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithExitTimeout bounds how long Terminate waits for killed processes.
func WithExitTimeout(d time.Duration) Option {
	return func(m *Manager) { m.exitTimeout = d }
}

// WithVerifier replaces the predicate used for ambiguous process names.
func WithVerifier(v VerifyFunc) Option {
	return func(m *Manager) { m.verify = v }
}

// NewManager returns a manager for the installed Oculus client.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		names:        []string{ClientName, GenericClientName},
		exeNames:     []string{"OculusClient.exe", "client.exe"},
		subPath:      supportSubPath,
		fallbackDirs: fallbackBaseDirs,
		baseDir:      registryBaseDir,
		verify:       VendorVerifier("oculus", GenericClientName),
		exitTimeout:  defaultExitTimeout,
		pollInterval: defaultPollInterval,
		list:         listSystem,
		start:        startDetached,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsRunning reports whether any process carries one of the client names.
func (m *Manager) IsRunning() bool {
	ctx := context.Background()
	procs, err := m.list(ctx)
	if err != nil {
		logger.Warning("Process scan failed: %v", err)
		return false
	}
	for _, p := range procs {
		if _, ok := m.matchName(ctx, p); ok {
			return true
		}
	}
	return false
}

// Terminate kills every verified client process and waits for them to exit,
// up to the exit timeout. It returns how many processes were killed and never
// fails: errors are logged and the process skipped.
func (m *Manager) Terminate(ctx context.Context) int {
	procs, err := m.list(ctx)
	if err != nil {
		logger.Warning("Process scan failed: %v", err)
		return 0
	}

	var killed []Proc
	for _, p := range procs {
		name, ok := m.matchName(ctx, p)
		if !ok {
			continue
		}
		exe, err := p.ExeWithContext(ctx)
		if err != nil {
			exe = ""
		}
		if !m.verify(name, exe) {
			logger.Debug("Skipping unverified process %s (pid %d, exe %q)", name, p.ID(), exe)
			continue
		}
		if err := p.KillWithContext(ctx); err != nil {
			logger.Warning("Failed to kill %s (pid %d): %v", name, p.ID(), err)
			continue
		}
		logger.Info("Killed %s (pid %d)", name, p.ID())
		killed = append(killed, p)
	}

	m.waitExit(ctx, killed)
	return len(killed)
}

func (m *Manager) waitExit(ctx context.Context, procs []Proc) {
	if len(procs) == 0 {
		return
	}
	deadline := time.Now().Add(m.exitTimeout)
	for {
		alive := procs[:0]
		for _, p := range procs {
			if running, err := p.IsRunningWithContext(ctx); err == nil && running {
				alive = append(alive, p)
			}
		}
		procs = alive
		if len(procs) == 0 {
			return
		}
		if !time.Now().Before(deadline) {
			logger.Warning("%d process(es) still running after %s", len(procs), m.exitTimeout)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.pollInterval):
		}
	}
}

// matchName returns the configured name p matches, comparing without the
// .exe suffix and ignoring case.
func (m *Manager) matchName(ctx context.Context, p Proc) (string, bool) {
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return "", false
	}
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], ".exe") {
		name = name[:len(name)-4]
	}
	for _, n := range m.names {
		if strings.EqualFold(name, n) {
			return n, true
		}
	}
	return "", false
}

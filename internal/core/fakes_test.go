package core

import (
	"context"
	"net/netip"
	"sync"

	"github.com/stretchr/testify/mock"
)

// recorder keeps the order of collaborator calls across all fakes.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type fakeRules struct {
	rec       *recorder
	rules     map[string][]netip.Addr
	createErr error
	removeErr error
}

func newFakeRules(rec *recorder) *fakeRules {
	return &fakeRules{rec: rec, rules: map[string][]netip.Addr{}}
}

func (f *fakeRules) Create(name string, addrs []netip.Addr) error {
	f.rec.add("create " + name)
	if f.createErr != nil {
		return f.createErr
	}
	f.rules[name] = append([]netip.Addr(nil), addrs...)
	return nil
}

func (f *fakeRules) Remove(name string) error {
	f.rec.add("remove " + name)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.rules, name)
	return nil
}

func (f *fakeRules) Exists(name string) bool {
	_, ok := f.rules[name]
	return ok
}

type fakeProcess struct {
	rec       *recorder
	installed string
	running   bool
	startErr  error
	overrides []string
}

func (f *fakeProcess) DiscoverPath(override string) (string, bool) {
	f.rec.add("discover")
	f.overrides = append(f.overrides, override)
	if f.installed == "" {
		return "", false
	}
	return f.installed, true
}

func (f *fakeProcess) IsRunning() bool {
	return f.running
}

func (f *fakeProcess) Terminate(context.Context) int {
	f.rec.add("terminate")
	if !f.running {
		return 0
	}
	f.running = false
	return 1
}

func (f *fakeProcess) Start(path string) error {
	f.rec.add("start " + path)
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

type fakeResolver struct {
	rec   *recorder
	addrs []netip.Addr
	err   error
}

func (f *fakeResolver) Resolve(_ context.Context, domains []string) ([]netip.Addr, error) {
	f.rec.add("resolve")
	if f.err != nil {
		return nil, f.err
	}
	return f.addrs, nil
}

type settingsMock struct {
	mock.Mock
}

func (m *settingsMock) OverridePath() string {
	return m.Called().String(0)
}

func (m *settingsMock) SaveOverridePath(path string) error {
	return m.Called(path).Error(0)
}

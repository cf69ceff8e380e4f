package firewall

import (
	"strings"
)

type runResult struct {
	output string
	err    error
}

// runnerMock records every command and answers from a table keyed by the
// full command line.
type runnerMock struct {
	calls   []string
	results map[string]runResult
	once    map[string][]runResult
}

func newRunnerMock() *runnerMock {
	return &runnerMock{
		results: make(map[string]runResult),
		once:    make(map[string][]runResult),
	}
}

// onceOn queues an answer used by the next matching call only, ahead of the
// table answer.
func (m *runnerMock) onceOn(cmdline string, output string, err error) {
	m.once[cmdline] = append(m.once[cmdline], runResult{output: output, err: err})
}

func (m *runnerMock) on(cmdline string, output string, err error) {
	m.results[cmdline] = runResult{output: output, err: err}
}

func (m *runnerMock) Run(name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	m.calls = append(m.calls, key)
	if queued := m.once[key]; len(queued) > 0 {
		m.once[key] = queued[1:]
		return []byte(queued[0].output), queued[0].err
	}
	res := m.results[key]
	return []byte(res.output), res.err
}

func (m *runnerMock) called(cmdline string) bool {
	for _, c := range m.calls {
		if c == cmdline {
			return true
		}
	}
	return false
}

package process

import (
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/user/oculus-guard/internal/logger"
	"github.com/user/oculus-guard/internal/procutil"
)

// Start launches the client detached from this process. It does not wait for
// the client to come up.
func (m *Manager) Start(path string) error {
	return m.start(path)
}

func startDetached(path string) error {
	cmd := procutil.Detach(exec.Command(path))
	cmd.Dir = filepath.Dir(path)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start %s", path)
	}
	logger.Info("Started %s (pid %d)", path, cmd.Process.Pid)
	return cmd.Process.Release()
}

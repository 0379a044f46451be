//go:build !windows

package engine

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup starts the engine in its own process group so that
// cancellation also reaches the processes it spawns.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

//go:build !windows

package adapter

import (
	"os/exec"
	"syscall"
)

// prepareCommand puts the command in its own process group so cancelling
// kills the test binaries go test spawned.
func prepareCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}

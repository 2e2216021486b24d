//go:build windows

package adapter

import "os/exec"

// prepareCommand relies on the default CommandContext kill on Windows.
func prepareCommand(_ *exec.Cmd) {}

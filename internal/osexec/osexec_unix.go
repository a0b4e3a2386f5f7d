//go:build !windows

package osexec

import (
	"os/exec"
	"syscall"
)

// OwnProcessGroup places the child in its own process group, so terminal
// interrupt signals reach mwbackup alone and the child is shut down through
// context cancellation instead.
func OwnProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

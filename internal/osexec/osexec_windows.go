//go:build windows

package osexec

import (
	"os/exec"
	"syscall"
)

// OwnProcessGroup places the child in its own process group, so console
// interrupt events reach mwbackup alone and the child is shut down through
// context cancellation instead.
func OwnProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

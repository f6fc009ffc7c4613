//go:build unix

package internallaunch

import (
	"os/exec"
	"syscall"
)

// detach puts the child in its own session so it outlives the launcher.
func detach(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

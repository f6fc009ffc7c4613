//go:build !unix

package internallaunch

import "os/exec"

func detach(_ *exec.Cmd) {}

package internallaunch

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
	appprofileserrors "github.com/leodido/appprofiles/errors"
)

// Split tokenizes a launch line following shell quoting rules.
//
// Lines with unbalanced quotes fall back to plain whitespace splitting.
func Split(line string) []string {
	argv, err := shellquote.Split(line)
	if err != nil {
		return strings.Fields(line)
	}

	return argv
}

// Spawner starts launch lines as detached processes.
type Spawner struct {
	start func(*exec.Cmd) error
}

// New creates a Spawner starting real processes.
func New() *Spawner {
	return &Spawner{
		start: func(c *exec.Cmd) error {
			if err := c.Start(); err != nil {
				return err
			}
			// Reap the child without ever blocking the caller
			go func() {
				_ = c.Wait()
			}()

			return nil
		},
	}
}

// Spawn starts the launch line without waiting for it and without capturing its output.
func (s *Spawner) Spawn(line string) error {
	argv := Split(line)
	if len(argv) == 0 {
		return appprofileserrors.NewSpawnError(line, fmt.Errorf("empty launch line"))
	}

	c := exec.Command(argv[0], argv[1:]...)
	detach(c)
	if err := s.start(c); err != nil {
		return appprofileserrors.NewSpawnError(line, err)
	}

	return nil
}

// Package launcher starts the main-menu process when the operator leaves
// the scanner window.
package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Launcher starts a detached sibling process.
type Launcher struct {
	args []string
}

// New parses command into program and arguments. An empty command gives a
// launcher that does nothing.
func New(command string) *Launcher {
	return &Launcher{args: strings.Fields(command)}
}

// Enabled reports whether a command is configured.
func (l *Launcher) Enabled() bool {
	return len(l.args) > 0
}

// Launch starts the command without waiting for it. It returns the started
// process, or nil when no command is configured.
func (l *Launcher) Launch() (*os.Process, error) {
	if !l.Enabled() {
		return nil, nil
	}
	cmd := exec.Command(l.args[0], l.args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("menu command %q not found: %w", l.args[0], err)
		}
		return nil, fmt.Errorf("start menu command: %w", err)
	}
	return cmd.Process, nil
}

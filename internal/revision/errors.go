package revision

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidURL   = errors.New("revision: invalid channel url")
	ErrInvalidText  = errors.New("revision: output is not valid utf-8")
	ErrEmptyCommand = errors.New("revision: empty command")
)

// StatusError is returned when the channel endpoint answers with a
// non-success status.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad response from %s: %s", e.URL, e.Status)
}

// CommandError is returned when the system revision command cannot be run or
// exits non-zero.
type CommandError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	cmd := strings.Join(e.Command, " ")
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return fmt.Sprintf("command %q failed (exit %d): %s", cmd, e.ExitCode, stderr)
	}
	if e.ExitCode > 0 {
		return fmt.Sprintf("command %q failed (exit %d)", cmd, e.ExitCode)
	}
	return fmt.Sprintf("command %q failed: %v", cmd, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

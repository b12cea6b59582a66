package revision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	DefaultCommandName = "nixos-version"
	DefaultCommandFlag = "--revision"
)

// SystemCommand runs an external command that prints the revision of the
// running system.
type SystemCommand struct {
	name string
	args []string
}

func NewSystemCommand(name string, args ...string) *SystemCommand {
	return &SystemCommand{
		name: name,
		args: args,
	}
}

// DefaultSystemCommand runs `nixos-version --revision`.
func DefaultSystemCommand() *SystemCommand {
	return NewSystemCommand(DefaultCommandName, DefaultCommandFlag)
}

// ParseCommand builds a SystemCommand from a whitespace separated command line.
// Quoting is not supported.
func ParseCommand(line string) (*SystemCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrEmptyCommand
	}
	return NewSystemCommand(fields[0], fields[1:]...), nil
}

// Args returns the full command line.
func (s *SystemCommand) Args() []string {
	return append([]string{s.name}, s.args...)
}

// Revision runs the command and returns its stdout without trailing whitespace.
func (s *SystemCommand) Revision(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, s.name, s.args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cmdErr := &CommandError{
			Command: s.Args(),
			Stderr:  stderr.String(),
			Err:     err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return "", cmdErr
	}

	out := stdout.Bytes()
	if !utf8.Valid(out) {
		return "", fmt.Errorf("%w: output of %q", ErrInvalidText, s.name)
	}

	return strings.TrimRightFunc(string(out), unicode.IsSpace), nil
}

// Package cln switches the CloudLinux Network (CLN) channel of the machine.
//
// The switch is a state-changing call to external tools. Its result is an
// Outcome: Success, CommandFailure when a tool ran and failed, or
// EnvironmentFailure when a tool could not be started at all.
package cln

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	uerrors "github.com/Aman-CERP/upgradecheck/internal/errors"
)

const (
	// DefaultSwitchBin is the channel switch tool shipped with rhn-client-tools.
	DefaultSwitchBin = "/usr/sbin/cln-switch-channel"

	// DefaultYumBin is used to drop metadata cached for the old channel.
	DefaultYumBin = "yum"

	// maxOutput caps the command output kept for logs.
	maxOutput = 4096

	// waitDelay bounds how long a killed command may hold its output pipes.
	waitDelay = time.Second
)

// Outcome is the result of a channel switch. It is one of Success,
// CommandFailure, EnvironmentFailure or Interrupted.
type Outcome interface {
	outcome()
}

// Success means every command exited zero.
type Success struct{}

// CommandFailure means a command ran and exited non-zero.
type CommandFailure struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

// EnvironmentFailure means a command could not be started.
type EnvironmentFailure struct {
	Message string
	Err     error
}

// Interrupted means the context ended while a command ran. The command's
// exit status says nothing about the system and must not be reported.
type Interrupted struct {
	Command string
	Err     error
}

func (Success) outcome() {}

func (CommandFailure) outcome() {}

func (EnvironmentFailure) outcome() {}

func (Interrupted) outcome() {}

// Switcher runs the channel switch commands.
type Switcher struct {
	switchBin string
	yumBin    string

	// For testing: override command construction
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// Option configures a Switcher.
type Option func(*Switcher)

// WithSwitchBin overrides the channel switch binary.
func WithSwitchBin(path string) Option {
	return func(s *Switcher) {
		if path != "" {
			s.switchBin = path
		}
	}
}

// WithYumBin overrides the yum binary.
func WithYumBin(path string) Option {
	return func(s *Switcher) {
		if path != "" {
			s.yumBin = path
		}
	}
}

// NewSwitcher creates a Switcher with the given options.
func NewSwitcher(opts ...Option) *Switcher {
	s := &Switcher{
		switchBin:   DefaultSwitchBin,
		yumBin:      DefaultYumBin,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commands returns the command lines run to switch to the target channel.
func (s *Switcher) Commands(target int) [][]string {
	return [][]string{
		{s.switchBin, "-t", strconv.Itoa(target), "-o", "-f"},
		{s.yumBin, "clean", "all"},
	}
}

// Switch moves the system to the target channel. Commands run in order and
// the first failure decides the outcome. Nothing is retried. A command killed
// because ctx ended yields Interrupted, never CommandFailure.
func (s *Switcher) Switch(ctx context.Context, target int) Outcome {
	for _, argv := range s.Commands(target) {
		if err := ctx.Err(); err != nil {
			return Interrupted{Command: strings.Join(argv, " "), Err: err}
		}

		cmd := s.execCommand(ctx, argv[0], argv[1:]...)
		cmd.WaitDelay = waitDelay
		out, err := cmd.CombinedOutput()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Interrupted{Command: strings.Join(argv, " "), Err: ctxErr}
			}
			return Classify(argv, out, err)
		}
	}
	return Success{}
}

// Classify turns a command error into an Outcome.
func Classify(argv []string, output []byte, err error) Outcome {
	if err == nil {
		return Success{}
	}

	command := strings.Join(argv, " ")

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		trimmed := truncate(strings.TrimSpace(string(output)))
		cmdErr := uerrors.New(uerrors.ErrCodeCommandFailed,
			fmt.Sprintf("%s exited with status %d", argv[0], code), err).
			WithDetail("command", command).
			WithDetail("exit_code", strconv.Itoa(code))
		if trimmed != "" {
			cmdErr.WithDetail("output", trimmed)
		}
		return CommandFailure{
			Command:  command,
			ExitCode: code,
			Output:   trimmed,
			Err:      cmdErr,
		}
	}

	toolErr := uerrors.ToolError(err.Error(), err).WithDetail("command", command)
	if errors.Is(err, exec.ErrNotFound) {
		toolErr.WithSuggestion("Install the package providing " + argv[0])
	}
	return EnvironmentFailure{
		Message: err.Error(),
		Err:     toolErr,
	}
}

func truncate(s string) string {
	if len(s) <= maxOutput {
		return s
	}
	return s[len(s)-maxOutput:]
}

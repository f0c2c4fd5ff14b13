// Package installer runs the external mod-loader installer against the game
// directory before folders are synced.
package installer

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for installer runs.
var (
	// ErrInstallerFailed indicates the installer exited non-zero.
	ErrInstallerFailed = errors.New("installer failed")

	// ErrNoCommand indicates no installer command was configured.
	ErrNoCommand = errors.New("installer command is empty")
)

// Result is the captured outcome of an installer run.
type Result struct {
	// Output holds combined stdout and stderr.
	Output   string
	ExitCode int
}

// Installer prepares a game directory for a given loader version.
type Installer interface {
	Install(ctx context.Context, dir, version string) (*Result, error)
}

// ExecInstaller runs an external command as: Command Args... dir version.
type ExecInstaller struct {
	Command string
	Args    []string
	Logger  *slog.Logger
}

// NewExecInstaller creates an ExecInstaller.
func NewExecInstaller(command string, args []string, logger *slog.Logger) *ExecInstaller {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecInstaller{Command: command, Args: args, Logger: logger}
}

// Install runs the installer and waits for it to exit. A non-zero exit wraps
// ErrInstallerFailed and still returns the captured output.
func (e *ExecInstaller) Install(ctx context.Context, dir, version string) (*Result, error) {
	if strings.TrimSpace(e.Command) == "" {
		return nil, ErrNoCommand
	}

	args := append(append([]string{}, e.Args...), dir, version)
	e.Logger.Info("running installer", "command", e.Command, "dir", dir, "version", version)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Command, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	res := &Result{Output: out.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			e.Logger.Debug("installer output", "output", res.Output)
			return res, errors.Wrapf(ErrInstallerFailed, "%s exited with status %d: %s",
				e.Command, res.ExitCode, strings.TrimSpace(res.Output))
		}
		return res, errors.Wrapf(err, "running %s", e.Command)
	}

	e.Logger.Debug("installer finished", "output", res.Output)
	return res, nil
}

// Available reports whether the installer command can be found.
func (e *ExecInstaller) Available() error {
	if strings.TrimSpace(e.Command) == "" {
		return ErrNoCommand
	}
	if _, err := exec.LookPath(e.Command); err != nil {
		return errors.Wrapf(err, "locating %s", e.Command)
	}
	return nil
}

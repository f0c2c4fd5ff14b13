// Package editor launches the user's text editor on a config file.
package editor

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/mcsync/internal/errors"
)

// ErrNoEditor is returned when the editor variable holds only whitespace.
var ErrNoEditor = errors.New("no editor configured")

// Command returns the editor command line from the environment.
// Fallback chain: $EDITOR, $VISUAL, nano, vi. Empty variables count as unset.
func Command(getenv func(string) string) string {
	for _, key := range []string{"EDITOR", "VISUAL"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}

// Open runs the editor on path, attached to the process's terminal, and
// waits for it to exit. An editor value with arguments ("code --wait") is
// split on whitespace.
func Open(ctx context.Context, path string) error {
	fields := strings.Fields(Command(os.Getenv))
	if len(fields) == 0 {
		return ErrNoEditor
	}

	args := append(fields[1:], path)
	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", fields[0])
	}
	return nil
}

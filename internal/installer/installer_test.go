package installer

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcsync/internal/logging"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecInstaller_PassesDirAndVersion(t *testing.T) {
	requireShell(t)

	// sh -c 'script' name $1 $2: the trailing dir and version become $1 and $2.
	inst := NewExecInstaller("sh", []string{"-c", `echo "dir=$1 version=$2"`, "installer"}, logging.ForTest(t))

	res, err := inst.Install(context.Background(), "/games/.minecraft", "0.16.9")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "dir=/games/.minecraft version=0.16.9", strings.TrimSpace(res.Output))
}

func TestExecInstaller_NonZeroExit(t *testing.T) {
	requireShell(t)

	inst := NewExecInstaller("sh", []string{"-c", "echo broken >&2; exit 3", "installer"}, logging.ForTest(t))

	res, err := inst.Install(context.Background(), "/tmp", "1.0")
	require.ErrorIs(t, err, ErrInstallerFailed)
	require.NotNil(t, res)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "broken")
	assert.Contains(t, err.Error(), "broken")
}

func TestExecInstaller_MissingCommand(t *testing.T) {
	inst := NewExecInstaller("mcsync-definitely-not-a-command", nil, logging.ForTest(t))

	_, err := inst.Install(context.Background(), "/tmp", "1.0")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInstallerFailed)
	assert.Error(t, inst.Available())
}

func TestExecInstaller_EmptyCommand(t *testing.T) {
	inst := NewExecInstaller("  ", nil, nil)

	_, err := inst.Install(context.Background(), "/tmp", "1.0")
	assert.ErrorIs(t, err, ErrNoCommand)
	assert.ErrorIs(t, inst.Available(), ErrNoCommand)
}

func TestExecInstaller_Canceled(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inst := NewExecInstaller("sh", []string{"-c", "sleep 5"}, logging.ForTest(t))
	_, err := inst.Install(ctx, "/tmp", "1.0")
	assert.Error(t, err)
}

func TestExecInstaller_DoesNotMutateArgs(t *testing.T) {
	requireShell(t)

	args := make([]string, 2, 8)
	args[0], args[1] = "-c", "true"
	inst := NewExecInstaller("sh", args, logging.ForTest(t))

	_, err := inst.Install(context.Background(), "/a", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"-c", "true"}, inst.Args)
	assert.Equal(t, []string{"-c", "true", "", ""}, args[:4])
}

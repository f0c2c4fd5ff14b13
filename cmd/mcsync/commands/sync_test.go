package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/lock"
	"github.com/thoreinstein/mcsync/internal/logging"
)

func TestSync_Success(t *testing.T) {
	cfg, _, dst := newWorkspace(t)
	writeFile(t, filepath.Join(dst, "mods", "old.jar"), "old")

	var buf bytes.Buffer
	err := runSyncWithWriter(context.Background(), cfg, logging.ForTest(t), &buf)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dst, "mods", "sodium.jar"))
	assert.FileExists(t, filepath.Join(dst, "resourcepacks", "faithful.zip"))
	assert.FileExists(t, filepath.Join(dst, "shaderpacks", "bsl.zip"))
	assert.NoFileExists(t, filepath.Join(dst, "mods", "old.jar"), "previous contents move into the backup")

	backups, err := backup.NewManager().List(dst, "mods")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.FileExists(t, filepath.Join(backups[0].Path(), "old.jar"))

	held, err := lock.Probe(dst)
	require.NoError(t, err)
	assert.False(t, held, "lock is released")
	assert.Contains(t, buf.String(), "Sync completed")
}

func TestSync_FolderFailure(t *testing.T) {
	cfg, src, _ := newWorkspace(t)
	require.NoError(t, os.RemoveAll(filepath.Join(src, "shaderpacks")))

	var buf bytes.Buffer
	err := runSyncWithWriter(context.Background(), cfg, logging.ForTest(t), &buf)
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrRunFailed))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, err.Error(), "shaderpacks")
	assert.Contains(t, buf.String(), "Sync failed")
}

func TestSync_MissingDestination(t *testing.T) {
	cfg, _, dst := newWorkspace(t)
	require.NoError(t, os.RemoveAll(dst))

	var buf bytes.Buffer
	err := runSyncWithWriter(context.Background(), cfg, logging.ForTest(t), &buf)
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrRunFailed))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestSync_InvalidConfig(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	cfg.Backup.Retention = 0

	var buf bytes.Buffer
	err := runSyncWithWriter(context.Background(), cfg, logging.ForTest(t), &buf)
	require.Error(t, err)

	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
	assert.Contains(t, err.Error(), "backup.retention")
	assert.Empty(t, buf.String(), "nothing runs with an invalid config")
}

func TestSync_JSON(t *testing.T) {
	setFlag(t, &syncJSON, true)
	cfg, _, dst := newWorkspace(t)

	var buf bytes.Buffer
	require.NoError(t, runSyncWithWriter(context.Background(), cfg, logging.ForTest(t), &buf))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, dst, out["root"])
	assert.Len(t, out["results"], 3)
}

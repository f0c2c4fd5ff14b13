package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/logging"
)

func TestRollback_RestoresNewestBackup(t *testing.T) {
	cfg, _, dst := newWorkspace(t)
	writeFile(t, filepath.Join(dst, "mods", "new.jar"), "new")
	writeFile(t, filepath.Join(dst, "mods.bak.20260101_000000", "old.jar"), "old")

	var buf bytes.Buffer
	require.NoError(t, runRollbackWithWriter(cfg, logging.ForTest(t), &buf))

	assert.FileExists(t, filepath.Join(dst, "mods", "old.jar"))
	assert.NoFileExists(t, filepath.Join(dst, "mods", "new.jar"))
	assert.NoDirExists(t, filepath.Join(dst, "mods.bak.20260101_000000"))

	out := buf.String()
	assert.Contains(t, out, "restored")
	assert.Contains(t, out, "nothing to restore")
	assert.Contains(t, out, "Restored 1 folder(s)")
}

func TestRollback_FolderFlag(t *testing.T) {
	cfg, _, dst := newWorkspace(t)
	writeFile(t, filepath.Join(dst, "mods.bak.20260101_000000", "old.jar"), "old")
	writeFile(t, filepath.Join(dst, "shaderpacks.bak.20260101_000000", "old.zip"), "old")
	setFlag(t, &rollbackFolders, []string{"shaderpacks"})

	var buf bytes.Buffer
	require.NoError(t, runRollbackWithWriter(cfg, logging.ForTest(t), &buf))

	assert.FileExists(t, filepath.Join(dst, "shaderpacks", "old.zip"))
	assert.DirExists(t, filepath.Join(dst, "mods.bak.20260101_000000"), "unselected folders are untouched")
	assert.NotContains(t, buf.String(), "mods ")
}

func TestRollback_UnknownFolder(t *testing.T) {
	cfg, _, _ := newWorkspace(t)
	setFlag(t, &rollbackFolders, []string{"saves"})

	err := runRollbackWithWriter(cfg, logging.ForTest(t), &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, content.ErrUnknownKind))
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

func TestRollback_MissingDestination(t *testing.T) {
	cfg, _, dst := newWorkspace(t)
	require.NoError(t, os.RemoveAll(dst))
	cfg.Lock.Enabled = false

	err := runRollbackWithWriter(cfg, logging.ForTest(t), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))
}

package rollback

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/logging"
)

type staticRoot struct {
	root string
	err  error
}

func (s staticRoot) Resolve() (string, error) { return s.root, s.err }

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func mkBackup(t *testing.T, root, name, body string, mtime time.Time) {
	t.Helper()
	dir := filepath.Join(root, name)
	writeFile(t, filepath.Join(dir, "file"), body)
	require.NoError(t, os.Chtimes(dir, mtime, mtime))
}

func newTestManager(t *testing.T, root string) *Manager {
	t.Helper()
	return NewManager(staticRoot{root: root}, WithLogger(logging.ForTest(t)))
}

func TestRollback_RoundTrip(t *testing.T) {
	root := t.TempDir()
	live := filepath.Join(root, "mods")
	writeFile(t, filepath.Join(live, "old.jar"), "before")

	bm := backup.NewManager(backup.WithLogger(logging.ForTest(t)))
	_, err := bm.Backup(live)
	require.NoError(t, err)

	// Simulate a sync that left new content behind.
	writeFile(t, filepath.Join(live, "new.jar"), "after")

	m := NewManager(staticRoot{root: root}, WithBackupManager(bm), WithLogger(logging.ForTest(t)))
	report, err := m.Rollback([]content.Kind{content.Mods})
	require.NoError(t, err)
	require.True(t, report.Succeeded())
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, StatusRestored, report.Outcomes[0].Status)

	data, err := os.ReadFile(filepath.Join(live, "old.jar"))
	require.NoError(t, err)
	assert.Equal(t, "before", string(data))
	assert.NoFileExists(t, filepath.Join(live, "new.jar"))

	left, err := bm.List(root, "mods")
	require.NoError(t, err)
	assert.Empty(t, left, "restoring consumes the backup")
}

func TestRollback_UsesNewestBackup(t *testing.T) {
	root := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mkBackup(t, root, "resourcepacks.bak.20240101_000000", "oldest", base)
	mkBackup(t, root, "resourcepacks.bak.20240102_000000", "newest", base.Add(24*time.Hour))
	writeFile(t, filepath.Join(root, "resourcepacks", "file"), "live")

	m := newTestManager(t, root)
	report, err := m.Rollback([]content.Kind{content.ResourcePacks})
	require.NoError(t, err)
	require.True(t, report.Succeeded())

	data, err := os.ReadFile(filepath.Join(root, "resourcepacks", "file"))
	require.NoError(t, err)
	assert.Equal(t, "newest", string(data))
	assert.DirExists(t, filepath.Join(root, "resourcepacks.bak.20240101_000000"), "older backups are left alone")
}

func TestRollback_NothingToRestore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shaderpacks", "bsl.zip"), "live")

	m := newTestManager(t, root)
	report, err := m.Rollback([]content.Kind{content.ShaderPacks})
	require.NoError(t, err)
	assert.True(t, report.Succeeded())
	assert.Equal(t, StatusNothingToRestore, report.Outcomes[0].Status)

	data, err := os.ReadFile(filepath.Join(root, "shaderpacks", "bsl.zip"))
	require.NoError(t, err)
	assert.Equal(t, "live", string(data), "live folder must be untouched")
}

func TestRollbackAll_IndependentKinds(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	mkBackup(t, root, "mods.bak.20240101_000000", "mods backup", now)
	writeFile(t, filepath.Join(root, "mods", "file"), "mods live")

	// A plain file is not a backup.
	writeFile(t, filepath.Join(root, "resourcepacks.bak.20240101_000000"), "not a dir")
	mkBackup(t, root, "shaderpacks.bak.20240101_000000", "shaders backup", now)

	m := newTestManager(t, root)
	report, err := m.RollbackAll()
	require.NoError(t, err)
	require.Len(t, report.Outcomes, 3)

	assert.Equal(t, content.Mods, report.Outcomes[0].Kind)
	assert.Equal(t, StatusRestored, report.Outcomes[0].Status)
	assert.Equal(t, StatusNothingToRestore, report.Outcomes[1].Status)
	assert.Equal(t, StatusRestored, report.Outcomes[2].Status)
	assert.Equal(t, 2, report.Count(StatusRestored))
	assert.True(t, report.Succeeded())
}

func TestRestore_FolderMismatch(t *testing.T) {
	root := t.TempDir()
	m := newTestManager(t, root)

	out := m.Restore(content.Mods, backup.Backup{Folder: "shaderpacks", Dir: root, Name: "shaderpacks.bak.1"})
	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, ErrFolderMismatch)
}

func TestRestore_RenameFailureIsRecorded(t *testing.T) {
	root := t.TempDir()
	m := newTestManager(t, root)

	// The backup directory does not exist, so the rename fails.
	out := m.Restore(content.Mods, backup.Backup{Folder: "mods", Dir: root, Name: "mods.bak.gone"})
	assert.Equal(t, StatusFailed, out.Status)
	assert.Error(t, out.Err)

	report := &Report{Outcomes: []Outcome{out, {Kind: content.ShaderPacks, Status: StatusRestored}}}
	assert.False(t, report.Succeeded())
	assert.Len(t, report.Errors(), 1)
}

func TestRollback_ResolveFailure(t *testing.T) {
	m := NewManager(staticRoot{err: errors.New("unsupported")}, WithLogger(logging.ForTest(t)))
	_, err := m.RollbackAll()
	assert.Error(t, err)
}

func TestRollback_MissingRoot(t *testing.T) {
	m := newTestManager(t, filepath.Join(t.TempDir(), "absent"))
	report, err := m.RollbackAll()
	require.NoError(t, err)
	require.True(t, report.Succeeded())
	require.Len(t, report.Outcomes, len(content.Kinds()))
	for _, out := range report.Outcomes {
		assert.Equal(t, StatusNothingToRestore, out.Status, out.Kind.String())
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusRestored, "restored"},
		{StatusNothingToRestore, "nothing to restore"},
		{StatusFailed, "failed"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

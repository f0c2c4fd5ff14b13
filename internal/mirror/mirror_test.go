package mirror

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcsync/internal/logging"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
}

func readTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	got := map[string]string{}
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		got[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return got
}

func TestMirror_FreshDestination(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "game", "mods")
	writeTree(t, src, map[string]string{
		"fabric-api.jar":    "api",
		"sodium.jar":        "sodium!",
		"config/lithium.tx": "cfg",
	})

	stats, err := Mirror(src, dst, WithLogger(logging.ForTest(t)))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, int64(13), stats.Bytes)
	assert.Equal(t, map[string]string{
		"fabric-api.jar":    "api",
		"sodium.jar":        "sodium!",
		"config/lithium.tx": "cfg",
	}, readTree(t, dst))
}

func TestMirror_MissingSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "mods")

	_, err := Mirror(filepath.Join(t.TempDir(), "absent"), dst)
	require.ErrorIs(t, err, ErrSourceNotFound)
	assert.NoDirExists(t, dst, "destination must be untouched")
}

func TestMirror_SourceIsFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "mods")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	_, err := Mirror(src, filepath.Join(t.TempDir(), "mods"))
	assert.ErrorIs(t, err, ErrSourceNotDir)
}

func TestMirror_AdditiveAndOverwrites(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.jar": "new"})
	writeTree(t, dst, map[string]string{"a.jar": "old", "extra.jar": "keep me"})

	_, err := Mirror(src, dst)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"a.jar":     "new",
		"extra.jar": "keep me",
	}, readTree(t, dst))
}

func TestMirror_Idempotent(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.jar": "1", "d/b.jar": "22"})

	_, err := Mirror(src, dst)
	require.NoError(t, err)
	first := readTree(t, dst)

	_, err = Mirror(src, dst)
	require.NoError(t, err)
	assert.Equal(t, first, readTree(t, dst))
}

func TestMirror_EmptySource(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "shaderpacks")

	stats, err := Mirror(src, dst)
	require.NoError(t, err)
	assert.Zero(t, stats.Files)
	assert.DirExists(t, dst)
}

func TestMirror_PreservesMetadata(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	src := t.TempDir()
	dst := t.TempDir()

	p := filepath.Join(src, "run.sh")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), 0o600))
	require.NoError(t, os.Chmod(p, 0o750))
	mtime := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, os.Chtimes(p, mtime, mtime))

	_, err := Mirror(src, dst)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dst, "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime), "mtime = %v, want %v", info.ModTime(), mtime)
}

func TestMirror_ReadOnlySource(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	src := filepath.Join(t.TempDir(), "mods")
	writeTree(t, src, map[string]string{"a.jar": "a", "lib/b.jar": "b"})
	require.NoError(t, os.Chmod(filepath.Join(src, "lib"), 0o555))
	require.NoError(t, os.Chmod(src, 0o555))
	t.Cleanup(func() {
		_ = os.Chmod(src, 0o755)
		_ = os.Chmod(filepath.Join(src, "lib"), 0o755)
	})

	dst := filepath.Join(t.TempDir(), "game", "mods")
	stats, err := Mirror(src, dst, WithLogger(logging.ForTest(t)))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, map[string]string{"a.jar": "a", "lib/b.jar": "b"}, readTree(t, dst))

	for _, dir := range []string{dst, filepath.Join(dst, "lib")} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o755), info.Mode().Perm(), dir)
	}
}

func TestMirror_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}
	outside := t.TempDir()
	writeTree(t, outside, map[string]string{"real.jar": "linked", "dir/inner.jar": "no"})

	src := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(outside, "real.jar"), filepath.Join(src, "link.jar")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(src, "linkdir")))

	dst := t.TempDir()
	stats, err := Mirror(src, dst)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.SkippedLinks)
	assert.Equal(t, map[string]string{"link.jar": "linked"}, readTree(t, dst))

	info, err := os.Lstat(filepath.Join(dst, "link.jar"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "file symlinks are copied as regular files")
	assert.NoFileExists(t, filepath.Join(dst, "linkdir"))
}

func TestMirror_AbortsOnFirstError(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeTree(t, src, map[string]string{"a.jar": "a", "b.jar": "b", "c.jar": "c"})

	// A non-empty directory where b.jar should go cannot be opened for writing.
	writeTree(t, dst, map[string]string{"b.jar/blocker": "x"})

	stats, err := Mirror(src, dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.jar")

	// ReadDir is sorted, so a.jar was copied before the failure and c.jar was not.
	assert.Equal(t, 1, stats.Files)
	assert.FileExists(t, filepath.Join(dst, "a.jar"))
	assert.NoFileExists(t, filepath.Join(dst, "c.jar"))
}

// Package mirror copies a source folder onto a destination folder.
//
// The copy is additive: files are created or overwritten, never deleted.
package mirror

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/mcsync/internal/logging"
)

// Sentinel errors for mirroring.
var (
	// ErrSourceNotFound indicates the source folder does not exist.
	ErrSourceNotFound = errors.New("source folder not found")

	// ErrSourceNotDir indicates the source exists but is not a directory.
	ErrSourceNotDir = errors.New("source is not a directory")
)

// Stats summarizes a mirror.
type Stats struct {
	// Files is the number of regular files written.
	Files int
	// Bytes is the total size of the files written.
	Bytes int64
	// SkippedLinks counts symlinks to directories, which are not followed.
	SkippedLinks int
}

type options struct {
	logger *slog.Logger
}

// Option configures Mirror.
type Option func(*options)

// WithLogger sets the logger used for per-file debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Mirror copies every file under src into dst, creating dst and any
// intermediate directories. File permission bits and modification times are
// carried over. Directories keep the source bits plus owner rwx, so a
// read-only source tree can still be filled. The first error stops the copy; files already written stay.
func Mirror(src, dst string, opts ...Option) (Stats, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var stats Stats

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, errors.Wrapf(ErrSourceNotFound, "%s", src)
		}
		return stats, errors.Wrapf(err, "checking source %s", src)
	}
	if !info.IsDir() {
		return stats, errors.Wrapf(ErrSourceNotDir, "%s", src)
	}

	if err := os.MkdirAll(dst, dirPerm(info)); err != nil {
		return stats, errors.Wrapf(err, "creating directory %s", dst)
	}

	m := &mirrorer{logger: o.logger, stats: &stats}
	if err := m.copyDir(src, dst); err != nil {
		return stats, err
	}
	return stats, nil
}

// dirPerm returns the mode for a destination directory copied from info.
func dirPerm(info os.FileInfo) os.FileMode {
	return info.Mode().Perm() | 0o700
}

type mirrorer struct {
	logger *slog.Logger
	stats  *Stats
}

// copyDir recursively copies src into dst. dst is expected to already exist.
func (m *mirrorer) copyDir(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", src)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return errors.Wrapf(err, "stating directory %s", srcPath)
			}
			if err := os.MkdirAll(dstPath, dirPerm(info)); err != nil {
				return errors.Wrapf(err, "creating directory %s", dstPath)
			}
			if err := m.copyDir(srcPath, dstPath); err != nil {
				return err
			}

		case entry.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(srcPath)
			if err != nil {
				return errors.Wrapf(err, "following symlink %s", srcPath)
			}
			if info.IsDir() {
				m.stats.SkippedLinks++
				m.logger.Debug("skipping directory symlink", "path", srcPath)
				continue
			}
			if err := m.copyFile(srcPath, dstPath); err != nil {
				return err
			}

		case entry.Type().IsRegular():
			if err := m.copyFile(srcPath, dstPath); err != nil {
				return err
			}

		default:
			m.logger.Debug("skipping special file", "path", srcPath, "type", entry.Type().String())
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, overwriting dst.
func (m *mirrorer) copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "opening source file %s", src)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrapf(err, "stating source file %s", src)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, "creating destination file %s", dst)
	}

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		dstFile.Close()
		return errors.Wrapf(err, "copying content from %s to %s", src, dst)
	}
	if err := dstFile.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", dst)
	}

	// OpenFile only applies the mode on create, and through the umask.
	if err := os.Chmod(dst, srcInfo.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "setting permissions on %s", dst)
	}
	if err := os.Chtimes(dst, time.Time{}, srcInfo.ModTime()); err != nil {
		return errors.Wrapf(err, "setting times on %s", dst)
	}

	m.stats.Files++
	m.stats.Bytes += n
	m.logger.Log(context.Background(), logging.LevelTrace, "copied file", "path", dst, "bytes", n)
	return nil
}

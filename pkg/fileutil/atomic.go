// Package fileutil provides atomic file writes and the YAML/TOML encoders
// used for configuration files.
package fileutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/mcsync/internal/errors"
)

// DefaultFilePerm is the mode of files written by the Atomic helpers.
const DefaultFilePerm os.FileMode = 0o644

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mcsync-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "syncing temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	committed = true
	return nil
}

// AtomicWriteYAML writes v as YAML to path atomically.
func AtomicWriteYAML(path string, v any) error {
	data, err := Marshal(v, FormatYAML)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, DefaultFilePerm)
}

// AtomicWriteTOML writes v as TOML to path atomically.
func AtomicWriteTOML(path string, v any) error {
	data, err := Marshal(v, FormatTOML)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, DefaultFilePerm)
}

// AtomicWriteConfig writes v as TOML when path ends in .toml, YAML otherwise.
func AtomicWriteConfig(path string, v any) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return AtomicWriteTOML(path, v)
	}
	return AtomicWriteYAML(path, v)
}

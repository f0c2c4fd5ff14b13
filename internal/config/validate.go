package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrRetentionTooLow indicates backup.retention is below one.
	ErrRetentionTooLow = errors.New("backup.retention must be >= 1")

	// ErrInvalidScope indicates an unrecognized rollback scope.
	ErrInvalidScope = errors.New("invalid rollback scope")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInstallerIncomplete indicates the installer is enabled without a
	// command or version.
	ErrInstallerIncomplete = errors.New("installer enabled but incomplete")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version < 1 {
		errs = append(errs, ErrVersionTooLow)
	}
	if cfg.Backup.Retention < 1 {
		errs = append(errs, ErrRetentionTooLow)
	}
	if !slices.Contains(Scopes(), cfg.Rollback.Scope) {
		errs = append(errs, errors.Wrapf(ErrInvalidScope, "%q", cfg.Rollback.Scope))
	}

	for field, value := range map[string]string{
		"paths.minecraft_path": cfg.Paths.MinecraftPath,
		"paths.source_base":    cfg.Paths.SourceBase,
	} {
		if err := validatePath(value); err != nil {
			errs = append(errs, &PathError{Field: field, Path: value, Err: err})
		}
	}

	if cfg.Installer.Enabled {
		if strings.TrimSpace(cfg.Installer.Command) == "" {
			errs = append(errs, errors.Wrap(ErrInstallerIncomplete, "installer.command is empty"))
		}
		if strings.TrimSpace(cfg.Installer.Version) == "" {
			errs = append(errs, errors.Wrap(ErrInstallerIncomplete, "installer.version is empty"))
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return nil
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if strings.TrimSpace(filepath.Clean(path)) == "" {
		return ErrInvalidPath
	}
	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}

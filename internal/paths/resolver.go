package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
)

// Resolver determines the destination root (the game directory) and the
// source root. It performs no filesystem access beyond looking up the home
// and working directories; existence is checked separately by ValidateDir.
type Resolver struct {
	// Override is the configured destination path. When non-empty it is
	// returned verbatim.
	Override string
	// SourceBase is the configured source root. When empty the working
	// directory is used.
	SourceBase string

	goos   string
	home   func() (string, error)
	getenv func(string) string
	getwd  func() (string, error)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithGOOS overrides the operating system used to pick the default path.
func WithGOOS(goos string) ResolverOption {
	return func(r *Resolver) { r.goos = goos }
}

// WithHomeFunc overrides home directory lookup.
func WithHomeFunc(fn func() (string, error)) ResolverOption {
	return func(r *Resolver) { r.home = fn }
}

// WithGetenv overrides environment lookup.
func WithGetenv(fn func(string) string) ResolverOption {
	return func(r *Resolver) { r.getenv = fn }
}

// WithGetwd overrides working directory lookup.
func WithGetwd(fn func() (string, error)) ResolverOption {
	return func(r *Resolver) { r.getwd = fn }
}

// NewResolver creates a Resolver for the given overrides.
func NewResolver(override, sourceBase string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		Override:   override,
		SourceBase: sourceBase,
		goos:       runtime.GOOS,
		home:       ResolveHome,
		getenv:     os.Getenv,
		getwd:      os.Getwd,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the destination root.
//
// Default locations:
//   - windows: %APPDATA%\.minecraft
//   - darwin:  ~/Library/Application Support/minecraft
//   - linux:   ~/.minecraft
//
// Any other OS yields ErrUnsupportedPlatform.
func (r *Resolver) Resolve() (string, error) {
	if r.Override != "" {
		return r.Override, nil
	}
	return r.defaultRoot()
}

func (r *Resolver) defaultRoot() (string, error) {
	switch r.goos {
	case "windows":
		if appData := r.getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, ".minecraft"), nil
		}
		home, err := r.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming", ".minecraft"), nil
	case "darwin":
		home, err := r.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", "minecraft"), nil
	case "linux":
		home, err := r.home()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".minecraft"), nil
	default:
		return "", errors.Wrapf(ErrUnsupportedPlatform, "%s", r.goos)
	}
}

// SourceRoot returns the configured source root, or the working directory.
func (r *Resolver) SourceRoot() (string, error) {
	if r.SourceBase != "" {
		return r.SourceBase, nil
	}
	wd, err := r.getwd()
	if err != nil {
		return "", errors.Wrap(err, "determining working directory")
	}
	return wd, nil
}

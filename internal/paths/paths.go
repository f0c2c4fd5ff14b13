package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names the configuration directory under the XDG config home.
const AppName = "mcsync"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrUnsupportedPlatform indicates the host OS has no known default
	// game directory. It is fatal: there is nothing to sync into.
	ErrUnsupportedPlatform = errors.New("unsupported operating system")
)

// DefaultDirPerm is the permission for directories mcsync creates itself.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents.
// If perm is 0, DefaultDirPerm is used.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", errors.Wrapf(ErrHomeDirNotFound, "%v", err)
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns <ConfigHome>/mcsync.
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// DefaultConfigFile returns the config file written by "mcsync init".
func DefaultConfigFile() string {
	return filepath.Join(AppConfigDir(), "config.yaml")
}

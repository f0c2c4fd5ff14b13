package paths

import (
	"os"

	"github.com/cockroachdb/errors"
)

// ValidationKind classifies why a root directory failed validation.
type ValidationKind int

// Validation kinds.
const (
	Unspecified ValidationKind = iota
	NotFound
	NotADirectory
	PermissionDenied
)

func (k ValidationKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case NotADirectory:
		return "not a directory"
	case PermissionDenied:
		return "permission denied"
	default:
		return "unspecified"
	}
}

// Sentinels that ValidationError unwraps to, one per kind.
var (
	ErrPathUnspecified  = errors.New("path not specified")
	ErrNotFound         = errors.New("directory does not exist")
	ErrNotADirectory    = errors.New("path is not a directory")
	ErrPermissionDenied = errors.New("no read permission")
)

// ValidationError reports a root directory that cannot be used.
type ValidationError struct {
	Path string
	Kind ValidationKind
	Err  error
}

func (e *ValidationError) Error() string {
	msg := e.sentinel().Error()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the kind's sentinel so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.sentinel()
}

func (e *ValidationError) sentinel() error {
	switch e.Kind {
	case NotFound:
		return ErrNotFound
	case NotADirectory:
		return ErrNotADirectory
	case PermissionDenied:
		return ErrPermissionDenied
	default:
		return ErrPathUnspecified
	}
}

// ValidateDir checks that path names an existing, readable directory.
func ValidateDir(path string) error {
	if path == "" {
		return &ValidationError{Kind: Unspecified}
	}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return &ValidationError{Path: path, Kind: NotFound}
	case os.IsPermission(err):
		return &ValidationError{Path: path, Kind: PermissionDenied, Err: err}
	case err != nil:
		return &ValidationError{Path: path, Kind: Unspecified, Err: err}
	case !info.IsDir():
		return &ValidationError{Path: path, Kind: NotADirectory}
	}

	f, err := os.Open(path)
	if err != nil {
		return &ValidationError{Path: path, Kind: PermissionDenied, Err: err}
	}
	return f.Close()
}

// Package errors provides error handling conventions for the mcsync CLI.
//
// It re-exports the constructors and inspectors of github.com/cockroachdb/errors
// so the rest of the module wraps errors one way, and adds an ExitError type
// that carries a process exit code and an optional suggestion.
//
// # Exit Codes
//
//   - ExitSuccess (0): every enabled folder synced
//   - ExitUser (1): the run failed, or input/configuration was invalid
//   - ExitSystem (2): an unexpected I/O or system error
//
// # ExitError
//
//	err := errors.NewUserError(errors.ErrRunFailed, "Run: mcsync backup list")
//	os.Exit(errors.ExitCode(err))
package errors

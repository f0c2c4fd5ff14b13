// Package doctor provides diagnostic checks for an mcsync setup.
//
// A [Runner] executes registered [Check] implementations and aggregates
// their [CheckResult] values into a [Report], grouped by [Category]. [DefaultChecks] returns
// the checks "mcsync doctor" runs: configuration validity, destination and
// source roots, backups on disk, the external installer and a held lock.
//
// Checks that can repair what they find also implement [Fixer]; the runner
// applies them with [Runner.Fix]. Errors in the config and paths categories
// are the ones a sync would also stop on, see [Report.Blocking].
package doctor

package orchestrator

import (
	"context"
	"log/slog"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/installer"
	"github.com/thoreinstein/mcsync/internal/lock"
	"github.com/thoreinstein/mcsync/internal/mirror"
	"github.com/thoreinstein/mcsync/internal/paths"
	"github.com/thoreinstein/mcsync/internal/rollback"
)

// ErrSyncFailed indicates at least one folder failed to sync.
var ErrSyncFailed = errors.New("folder sync failed")

// Resolver yields the destination and source roots.
type Resolver interface {
	Resolve() (string, error)
	SourceRoot() (string, error)
}

// Backupper moves a live folder aside before it is synced.
type Backupper interface {
	Backup(target string) (*backup.Result, error)
}

// Synchronizer copies a source folder onto a destination folder.
type Synchronizer interface {
	Mirror(src, dst string) (mirror.Stats, error)
}

// SynchronizerFunc adapts a function to Synchronizer.
type SynchronizerFunc func(src, dst string) (mirror.Stats, error)

// Mirror calls f.
func (f SynchronizerFunc) Mirror(src, dst string) (mirror.Stats, error) {
	return f(src, dst)
}

// Rollbacker restores folders from their newest backup.
type Rollbacker interface {
	Rollback(kinds []content.Kind) (*rollback.Report, error)
}

// Locker guards the destination root for the duration of a run.
type Locker interface {
	Acquire() error
	Release() error
}

// Orchestrator drives one sync run.
type Orchestrator struct {
	cfg       *config.Config
	logger    *slog.Logger
	resolver  Resolver
	backups   Backupper
	sync      Synchronizer
	rollback  Rollbacker
	installer installer.Installer
	newLock   func(root string) Locker
	observe   func(State, content.Kind)

	installerSet bool
	lockSet      bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithResolver replaces the path resolver built from the configuration.
func WithResolver(r Resolver) Option {
	return func(o *Orchestrator) { o.resolver = r }
}

// WithBackupper replaces the backup manager.
func WithBackupper(b Backupper) Option {
	return func(o *Orchestrator) { o.backups = b }
}

// WithSynchronizer replaces the folder synchronizer.
func WithSynchronizer(s Synchronizer) Option {
	return func(o *Orchestrator) { o.sync = s }
}

// WithRollbacker replaces the rollback manager.
func WithRollbacker(r Rollbacker) Option {
	return func(o *Orchestrator) { o.rollback = r }
}

// WithInstaller replaces the external installer. A nil installer disables
// the installer step.
func WithInstaller(i installer.Installer) Option {
	return func(o *Orchestrator) {
		o.installer = i
		o.installerSet = true
	}
}

// WithLocker replaces the lock factory. A nil factory disables locking.
func WithLocker(fn func(root string) Locker) Option {
	return func(o *Orchestrator) {
		o.newLock = fn
		o.lockSet = true
	}
}

// WithObserver registers a function called on every state transition.
func WithObserver(fn func(State, content.Kind)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// New creates an Orchestrator wired from cfg. Options replace individual
// collaborators.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.resolver == nil {
		o.resolver = cfg.Resolver()
	}
	bm := backup.NewManager(
		backup.WithRetentionCount(cfg.Backup.Retention),
		backup.WithLogger(o.logger),
	)
	if o.backups == nil {
		o.backups = bm
	}
	if o.sync == nil {
		logger := o.logger
		o.sync = SynchronizerFunc(func(src, dst string) (mirror.Stats, error) {
			return mirror.Mirror(src, dst, mirror.WithLogger(logger))
		})
	}
	if o.rollback == nil {
		o.rollback = rollback.NewManager(o.resolver,
			rollback.WithBackupManager(bm),
			rollback.WithLogger(o.logger),
		)
	}
	if !o.installerSet && cfg.Installer.Enabled {
		o.installer = installer.NewExecInstaller(cfg.Installer.Command, cfg.Installer.Args, o.logger)
	}
	if !o.lockSet && cfg.Lock.Enabled {
		o.newLock = func(root string) Locker { return lock.New(root) }
	}
	return o
}

// runState tracks what a run has done, for scoping a rollback.
type runState struct {
	touched mapset.Set[content.Kind]
	failed  mapset.Set[content.Kind]
	// current is the folder being processed, empty between folders.
	current content.Kind
}

func (o *Orchestrator) transition(s State, kind content.Kind) {
	if kind != "" {
		o.logger.Debug("state", "state", s.String(), "folder", kind)
	} else {
		o.logger.Debug("state", "state", s.String())
	}
	if o.observe != nil {
		o.observe(s, kind)
	}
}

// Run backs up and syncs every enabled folder.
//
// A failure to resolve the destination root is returned without a report.
// Any later failure that escapes a folder (validation, lock, installer,
// backup rename) triggers a rollback and is returned, marked with
// errors.ErrRunFailed, together with the report. A folder whose copy fails is
// recorded in the report without an error being returned, unless
// rollback.on_sync_failure is set.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	o.transition(StateInit, "")

	root, err := o.resolver.Resolve()
	if err != nil {
		return nil, errors.Wrap(err, "resolving destination root")
	}
	o.transition(StatePathResolved, "")
	o.logger.Info("resolved destination", "root", root)

	report := &Report{Root: root}
	run := &runState{
		touched: mapset.NewThreadUnsafeSet[content.Kind](),
		failed:  mapset.NewThreadUnsafeSet[content.Kind](),
	}

	src, err := o.resolver.SourceRoot()
	if err != nil {
		return o.recover(report, run, errors.Wrap(err, "resolving source root"))
	}
	report.SourceRoot = src

	if err := paths.ValidateDir(root); err != nil {
		return o.recover(report, run, errors.Wrap(err, "validating destination root"))
	}
	if err := paths.ValidateDir(src); err != nil {
		return o.recover(report, run, errors.Wrap(err, "validating source root"))
	}

	if o.newLock != nil {
		l := o.newLock(root)
		if err := l.Acquire(); err != nil {
			return o.recover(report, run, err)
		}
		defer func() {
			if err := l.Release(); err != nil {
				o.logger.Warn("could not release lock", "error", err)
			}
		}()
	}

	if o.installer != nil {
		if _, err := o.installer.Install(ctx, root, o.cfg.Installer.Version); err != nil {
			return o.recover(report, run, errors.Wrap(err, "running installer"))
		}
	}

	for _, spec := range o.cfg.FolderSpecs() {
		if err := ctx.Err(); err != nil {
			return o.recover(report, run, errors.Wrap(err, "sync interrupted"))
		}
		if !spec.Enabled {
			o.logger.Info("skipping disabled folder", "folder", spec.Kind)
			report.Skipped = append(report.Skipped, spec.Kind)
			continue
		}

		target := SyncTarget{
			Spec:        spec,
			Source:      filepath.Join(src, spec.Kind.String()),
			Destination: filepath.Join(root, spec.Kind.String()),
		}
		res, err := o.syncFolder(run, target)
		if err != nil {
			return o.recover(report, run, err)
		}
		report.Results = append(report.Results, res)
	}

	o.transition(StateReporting, "")
	if failed := report.Failed(); len(failed) > 0 && o.cfg.Rollback.OnSyncFailure {
		return o.recover(report, run, errors.Wrapf(ErrSyncFailed, "%v", content.Strings(failed)))
	}

	o.transition(StateDone, "")
	return report, nil
}

// syncFolder backs up and mirrors one folder. Only a backup failure is
// returned; a mirror failure is recorded in the result.
func (o *Orchestrator) syncFolder(run *runState, t SyncTarget) (SyncResult, error) {
	kind := t.Spec.Kind
	run.current = kind
	run.touched.Add(kind)

	o.transition(StateBackingUp, kind)
	bres, err := o.backups.Backup(t.Destination)
	if err != nil {
		return SyncResult{}, errors.Wrapf(err, "backing up %s", kind)
	}

	o.transition(StateSyncing, kind)
	stats, err := o.sync.Mirror(t.Source, t.Destination)

	res := SyncResult{
		Folder:    kind,
		Succeeded: err == nil,
		Err:       err,
		Files:     stats.Files,
		Bytes:     stats.Bytes,
	}
	if bres != nil {
		res.Backup = &bres.Backup
		res.CleanupErrors = bres.CleanupErrors
	}

	if err != nil {
		run.failed.Add(kind)
		o.logger.Error("sync failed", "folder", kind, "error", err)
	} else {
		o.logger.Info("synced folder", "folder", kind, "files", stats.Files, "bytes", stats.Bytes)
	}

	o.transition(StateRecorded, kind)
	run.current = ""
	return res, nil
}

// recover rolls back the folders selected by the configured scope and
// returns the report with cause marked as a failed run.
func (o *Orchestrator) recover(report *Report, run *runState, cause error) (*Report, error) {
	o.transition(StateErrorRecovery, run.current)
	report.Err = cause

	kinds := o.rollbackKinds(run)
	o.logger.Error("sync run failed, rolling back",
		"error", cause,
		"scope", string(o.cfg.Rollback.Scope),
		"folders", content.Strings(kinds),
	)

	if len(kinds) > 0 {
		rb, err := o.rollback.Rollback(kinds)
		report.Rollback = rb
		if err != nil {
			report.RollbackErr = err
			o.logger.Error("rollback failed", "error", err)
		}
	} else {
		o.logger.Info("nothing to roll back")
	}

	o.transition(StateDone, "")
	return report, errors.Wrap(errors.Mark(cause, errors.ErrRunFailed), "sync run failed")
}

// rollbackKinds selects the folders to restore, in processing order.
func (o *Orchestrator) rollbackKinds(run *runState) []content.Kind {
	var selected mapset.Set[content.Kind]
	switch o.cfg.Rollback.Scope {
	case config.ScopeTouched:
		selected = run.touched
	case config.ScopeFailed:
		selected = run.failed.Clone()
		if run.current != "" {
			selected.Add(run.current)
		}
	default:
		return content.Kinds()
	}

	var kinds []content.Kind
	for _, k := range content.Kinds() {
		if selected.Contains(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

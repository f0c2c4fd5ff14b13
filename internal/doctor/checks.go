package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/installer"
	"github.com/thoreinstein/mcsync/internal/lock"
	"github.com/thoreinstein/mcsync/internal/paths"
)

// Resolver yields the destination and source roots. *paths.Resolver
// implements it.
type Resolver interface {
	Resolve() (string, error)
	SourceRoot() (string, error)
}

// DefaultChecks returns the checks run by "mcsync doctor", in order.
func DefaultChecks(cfg *config.Config) []Check {
	r := cfg.Resolver()
	return []Check{
		NewConfigCheck(cfg),
		NewDestinationCheck(r),
		NewSourceCheck(r, cfg.FolderSpecs()),
		NewBackupCheck(r, cfg.Backup.Retention),
		NewInstallerCheck(cfg.Installer),
		NewLockCheck(r),
	}
}

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg *config.Config
}

var _ Check = (*ConfigCheck)(nil)

// NewConfigCheck creates a configuration check.
func NewConfigCheck(cfg *config.Config) *ConfigCheck {
	return &ConfigCheck{cfg: cfg}
}

// Name returns the unique identifier for this check.
func (c *ConfigCheck) Name() string { return "config" }

// Category returns the grouping for this check.
func (c *ConfigCheck) Category() Category { return CategoryConfig }

// Run executes the check.
func (c *ConfigCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	errs := config.Validate(c.cfg)
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		res.Status = SeverityError
		res.Message = fmt.Sprintf("%d configuration error(s)", len(errs))
		res.Details = map[string]any{"errors": msgs}
		res.FixHint = "edit the config file, or run: mcsync init --force"
		if c.cfg != nil && c.cfg.File != "" {
			res.Details["file"] = c.cfg.File
		}
		return res
	}

	if c.cfg.File == "" {
		res.Status = SeverityInfo
		res.Message = "no config file found, using defaults"
		res.FixHint = "run: mcsync init"
		return res
	}

	res.Status = SeverityPass
	res.Message = "configuration is valid"
	res.Details = map[string]any{"file": c.cfg.File}
	return res
}

// DestinationCheck verifies the game directory resolves and is usable.
type DestinationCheck struct {
	resolver Resolver
}

var _ Check = (*DestinationCheck)(nil)

// NewDestinationCheck creates a destination root check.
func NewDestinationCheck(r Resolver) *DestinationCheck {
	return &DestinationCheck{resolver: r}
}

// Name returns the unique identifier for this check.
func (c *DestinationCheck) Name() string { return "destination" }

// Category returns the grouping for this check.
func (c *DestinationCheck) Category() Category { return CategoryPaths }

// Run executes the check.
func (c *DestinationCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	root, err := c.resolver.Resolve()
	if err != nil {
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = "set paths.minecraft_path in the config file"
		return res
	}
	res.Details = map[string]any{"path": root}

	if err := paths.ValidateDir(root); err != nil {
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = validationHint(err, "launch the game once, or set paths.minecraft_path")
		return res
	}

	res.Status = SeverityPass
	res.Message = "game directory found"
	return res
}

// SourceCheck verifies the source root and reports enabled folders that
// are missing from it.
type SourceCheck struct {
	resolver Resolver
	specs    []content.FolderSpec
}

var _ Check = (*SourceCheck)(nil)

// NewSourceCheck creates a source root check.
func NewSourceCheck(r Resolver, specs []content.FolderSpec) *SourceCheck {
	return &SourceCheck{resolver: r, specs: specs}
}

// Name returns the unique identifier for this check.
func (c *SourceCheck) Name() string { return "source" }

// Category returns the grouping for this check.
func (c *SourceCheck) Category() Category { return CategoryPaths }

// Run executes the check.
func (c *SourceCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	src, err := c.resolver.SourceRoot()
	if err != nil {
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = "set paths.source_base in the config file"
		return res
	}
	res.Details = map[string]any{"path": src}

	if err := paths.ValidateDir(src); err != nil {
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = validationHint(err, "set paths.source_base to your pack directory")
		return res
	}

	var missing []string
	for _, spec := range c.specs {
		if !spec.Enabled {
			continue
		}
		info, err := os.Stat(filepath.Join(src, spec.Kind.String()))
		if err != nil || !info.IsDir() {
			missing = append(missing, spec.Kind.String())
		}
	}
	if len(missing) > 0 {
		res.Status = SeverityWarning
		res.Message = "enabled folders missing from source: " + strings.Join(missing, ", ")
		res.Details["missing"] = missing
		res.FixHint = "create the folders or disable them under folders: in the config file"
		return res
	}

	res.Status = SeverityPass
	res.Message = "source directory found"
	return res
}

// BackupCheck reports the backups kept in the game directory and flags
// folders holding more than the retention count.
type BackupCheck struct {
	BackupPruneFixer

	resolver  Resolver
	retention int
}

var (
	_ Check = (*BackupCheck)(nil)
	_ Fixer = (*BackupCheck)(nil)
)

// NewBackupCheck creates a backup inventory check.
func NewBackupCheck(r Resolver, retention int) *BackupCheck {
	return &BackupCheck{resolver: r, retention: retention}
}

// Name returns the unique identifier for this check.
func (c *BackupCheck) Name() string { return "backups" }

// Category returns the grouping for this check.
func (c *BackupCheck) Category() Category { return CategoryBackups }

// Run executes the check.
func (c *BackupCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	root, err := c.resolver.Resolve()
	if err != nil {
		res.Status = SeverityInfo
		res.Message = "skipped: destination not resolved"
		return res
	}

	mgr := backup.NewManager(backup.WithRetentionCount(c.retention))
	c.setTarget(mgr, root, c.retention)

	var (
		total  int
		size   int64
		excess []string
	)
	perFolder := make(map[string]any)
	for _, kind := range content.Kinds() {
		backups, err := mgr.List(root, kind.String())
		if err != nil {
			res.Status = SeverityError
			res.Message = err.Error()
			return res
		}
		for _, b := range backups {
			n, err := backup.Size(b)
			if err == nil {
				size += n
			}
		}
		total += len(backups)
		perFolder[kind.String()] = len(backups)
		if len(backups) > c.retention {
			excess = append(excess, kind.String())
			c.addExcess(kind)
		}
	}

	res.Details = map[string]any{
		"folders": perFolder,
		"total":   total,
		"size":    humanize.Bytes(uint64(size)),
	}

	if len(excess) > 0 {
		res.Status = SeverityWarning
		res.Message = fmt.Sprintf("more than %d backups kept for: %s", c.retention, strings.Join(excess, ", "))
		res.Fixable = true
		res.FixHint = "run: mcsync doctor --fix, or mcsync backup prune"
		return res
	}

	res.Status = SeverityPass
	res.Message = fmt.Sprintf("%d backup(s), %s", total, humanize.Bytes(uint64(size)))
	return res
}

// InstallerCheck verifies the external installer can run when enabled.
type InstallerCheck struct {
	cfg       config.InstallerConfig
	available func() error
}

var _ Check = (*InstallerCheck)(nil)

// NewInstallerCheck creates an installer check.
func NewInstallerCheck(cfg config.InstallerConfig) *InstallerCheck {
	inst := installer.NewExecInstaller(cfg.Command, cfg.Args, nil)
	return &InstallerCheck{cfg: cfg, available: inst.Available}
}

// Name returns the unique identifier for this check.
func (c *InstallerCheck) Name() string { return "installer" }

// Category returns the grouping for this check.
func (c *InstallerCheck) Category() Category { return CategoryInstaller }

// Run executes the check.
func (c *InstallerCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	if !c.cfg.Enabled {
		res.Status = SeverityInfo
		res.Message = "installer disabled"
		return res
	}
	res.Details = map[string]any{"command": c.cfg.Command, "version": c.cfg.Version}

	if err := c.available(); err != nil {
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = "install " + c.cfg.Command + " or set installer.enabled: false"
		return res
	}
	if c.cfg.Version == "" {
		res.Status = SeverityError
		res.Message = "installer.version is empty"
		res.FixHint = "set installer.version in the config file"
		return res
	}

	res.Status = SeverityPass
	res.Message = c.cfg.Command + " found"
	return res
}

// LockCheck reports whether another run holds the destination lock.
type LockCheck struct {
	resolver Resolver
}

var _ Check = (*LockCheck)(nil)

// NewLockCheck creates a lock check.
func NewLockCheck(r Resolver) *LockCheck {
	return &LockCheck{resolver: r}
}

// Name returns the unique identifier for this check.
func (c *LockCheck) Name() string { return "lock" }

// Category returns the grouping for this check.
func (c *LockCheck) Category() Category { return CategoryPaths }

// Run executes the check. The lock file stays in the game directory between
// runs, so only a held lock is a problem.
func (c *LockCheck) Run() *CheckResult {
	res := &CheckResult{Name: c.Name(), Category: c.Category()}

	root, err := c.resolver.Resolve()
	if err != nil {
		res.Status = SeverityInfo
		res.Message = "skipped: destination not resolved"
		return res
	}

	path := filepath.Join(root, lock.FileName)
	if _, err := os.Stat(path); err != nil {
		res.Status = SeverityPass
		res.Message = "no lock file"
		return res
	}
	res.Details = map[string]any{"path": path}

	held, err := lock.Probe(root)
	switch {
	case err != nil:
		res.Status = SeverityError
		res.Message = err.Error()
		res.FixHint = "check the permissions of " + path
	case held:
		res.Status = SeverityWarning
		res.Message = "another mcsync run is in progress"
		res.FixHint = "wait for it to finish before syncing"
	default:
		res.Status = SeverityPass
		res.Message = "lock free"
	}
	return res
}

// validationHint picks a fix hint for a ValidateDir failure.
func validationHint(err error, notFound string) string {
	var verr *paths.ValidationError
	if !errors.As(err, &verr) {
		return ""
	}
	switch verr.Kind {
	case paths.NotFound:
		return notFound
	case paths.NotADirectory:
		return "point the path at a directory, not a file"
	case paths.PermissionDenied:
		return "check ownership and permissions of " + verr.Path
	default:
		return ""
	}
}

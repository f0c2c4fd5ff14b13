// Package config loads the mcsync configuration once, through Viper, into an
// immutable snapshot that is passed to every component.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/mcsync/internal/content"
	"github.com/thoreinstein/mcsync/internal/paths"
)

// EnvPrefix prefixes environment overrides, e.g. MCSYNC_PATHS_MINECRAFT_PATH.
const EnvPrefix = "MCSYNC"

// DefaultRetention is the number of backups kept per folder.
const DefaultRetention = 3

// Scope selects which folders a rollback restores after a failed run.
type Scope string

// Rollback scopes.
const (
	// ScopeAll restores every managed folder, whether or not the run touched it.
	ScopeAll Scope = "all"
	// ScopeTouched restores folders the run backed up or synced.
	ScopeTouched Scope = "touched"
	// ScopeFailed restores folders whose sync failed, plus the folder being
	// processed when an error escaped.
	ScopeFailed Scope = "failed"
)

// Scopes lists the accepted rollback scopes.
func Scopes() []Scope {
	return []Scope{ScopeAll, ScopeTouched, ScopeFailed}
}

// Config is the top-level configuration.
type Config struct {
	Version   int             `mapstructure:"version" yaml:"version" toml:"version"`
	Paths     PathsConfig     `mapstructure:"paths" yaml:"paths" toml:"paths"`
	Folders   FoldersConfig   `mapstructure:"folders" yaml:"folders" toml:"folders"`
	Backup    BackupConfig    `mapstructure:"backup" yaml:"backup" toml:"backup"`
	Rollback  RollbackConfig  `mapstructure:"rollback" yaml:"rollback" toml:"rollback"`
	Installer InstallerConfig `mapstructure:"installer" yaml:"installer" toml:"installer"`
	Lock      LockConfig      `mapstructure:"lock" yaml:"lock" toml:"lock"`

	// File is the config file that was read, empty when defaults were used.
	File string `mapstructure:"-" yaml:"-" toml:"-"`
}

// PathsConfig holds the destination override and the source root.
type PathsConfig struct {
	MinecraftPath string `mapstructure:"minecraft_path" yaml:"minecraft_path" toml:"minecraft_path"`
	SourceBase    string `mapstructure:"source_base" yaml:"source_base" toml:"source_base"`
}

// FoldersConfig toggles each managed folder.
type FoldersConfig struct {
	SyncMods          bool `mapstructure:"sync_mods" yaml:"sync_mods" toml:"sync_mods"`
	SyncResourcePacks bool `mapstructure:"sync_resourcepacks" yaml:"sync_resourcepacks" toml:"sync_resourcepacks"`
	SyncShaderPacks   bool `mapstructure:"sync_shaderpacks" yaml:"sync_shaderpacks" toml:"sync_shaderpacks"`
}

// BackupConfig controls backup retention.
type BackupConfig struct {
	Retention int `mapstructure:"retention" yaml:"retention" toml:"retention"`
}

// RollbackConfig controls what a failed run restores.
type RollbackConfig struct {
	Scope         Scope `mapstructure:"scope" yaml:"scope" toml:"scope"`
	OnSyncFailure bool  `mapstructure:"on_sync_failure" yaml:"on_sync_failure" toml:"on_sync_failure"`
}

// InstallerConfig describes the optional external mod-loader installer.
// The target directory and Version are appended to Args as the last two
// positional arguments.
type InstallerConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
	Command string   `mapstructure:"command" yaml:"command" toml:"command"`
	Args    []string `mapstructure:"args" yaml:"args" toml:"args"`
	Version string   `mapstructure:"version" yaml:"version" toml:"version"`
}

// LockConfig controls the advisory lock on the destination root.
type LockConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" toml:"enabled"`
}

// FolderSpecs returns the per-kind enable flags in processing order.
func (c *Config) FolderSpecs() []content.FolderSpec {
	enabled := map[content.Kind]bool{
		content.Mods:          c.Folders.SyncMods,
		content.ResourcePacks: c.Folders.SyncResourcePacks,
		content.ShaderPacks:   c.Folders.SyncShaderPacks,
	}
	specs := make([]content.FolderSpec, 0, len(enabled))
	for _, k := range content.Kinds() {
		specs = append(specs, content.FolderSpec{Kind: k, Enabled: enabled[k]})
	}
	return specs
}

// Resolver builds the path resolver for this configuration.
func (c *Config) Resolver(opts ...paths.ResolverOption) *paths.Resolver {
	return paths.NewResolver(c.Paths.MinecraftPath, c.Paths.SourceBase, opts...)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version: 1,
		Folders: FoldersConfig{
			SyncMods:          true,
			SyncResourcePacks: true,
			SyncShaderPacks:   true,
		},
		Backup:   BackupConfig{Retention: DefaultRetention},
		Rollback: RollbackConfig{Scope: ScopeAll},
		Installer: InstallerConfig{
			Command: "java",
			Args:    []string{"-jar", "fabric-installer.jar", "client", "-dir"},
		},
		Lock: LockConfig{Enabled: true},
	}
}

// Init registers defaults, search paths and environment bindings on the
// global Viper instance. Call it once before Load.
func Init() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault("version", d.Version)
	viper.SetDefault("paths.minecraft_path", d.Paths.MinecraftPath)
	viper.SetDefault("paths.source_base", d.Paths.SourceBase)
	viper.SetDefault("folders.sync_mods", d.Folders.SyncMods)
	viper.SetDefault("folders.sync_resourcepacks", d.Folders.SyncResourcePacks)
	viper.SetDefault("folders.sync_shaderpacks", d.Folders.SyncShaderPacks)
	viper.SetDefault("backup.retention", d.Backup.Retention)
	viper.SetDefault("rollback.scope", string(d.Rollback.Scope))
	viper.SetDefault("rollback.on_sync_failure", d.Rollback.OnSyncFailure)
	viper.SetDefault("installer.enabled", d.Installer.Enabled)
	viper.SetDefault("installer.command", d.Installer.Command)
	viper.SetDefault("installer.args", d.Installer.Args)
	viper.SetDefault("installer.version", d.Installer.Version)
	viper.SetDefault("lock.enabled", d.Lock.Enabled)
}

// Load reads the configuration file and returns the snapshot.
// If path is provided, it reads that file (YAML or TOML by extension) and a
// missing file is an error. If path is empty, the search paths are tried and
// a missing file means defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			viper.SetConfigType("toml")
		case ".yml", ".yaml":
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// No file in the search path: defaults apply.
		case os.IsNotExist(err) || errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	cfg.File = viper.ConfigFileUsed()
	cfg.Rollback.Scope = Scope(strings.ToLower(string(cfg.Rollback.Scope)))

	return &cfg, nil
}

// Package config provides configuration management for the mcsync CLI.
//
// The configuration file is searched in ./config.yaml and then
// <XDG config home>/mcsync/config.yaml; --config names an explicit YAML or
// TOML file. Every key can be overridden from the environment with the
// MCSYNC_ prefix (MCSYNC_BACKUP_RETENTION=5).
//
//	version: 1
//	paths:
//	  minecraft_path: ""   # empty: OS default
//	  source_base: ""      # empty: working directory
//	folders:
//	  sync_mods: true
//	  sync_resourcepacks: true
//	  sync_shaderpacks: true
//	backup:
//	  retention: 3
//	rollback:
//	  scope: all           # all | touched | failed
//	  on_sync_failure: false
//	installer:
//	  enabled: false
//	  command: java
//	  args: ["-jar", "fabric-installer.jar", "client", "-dir"]
//	  version: ""
//	lock:
//	  enabled: true
//
// [Load] is called once per process; the returned *Config is treated as
// read-only and handed to each component.
package config

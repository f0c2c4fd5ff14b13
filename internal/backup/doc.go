// Package backup keeps rename-based snapshots of the managed game folders.
//
// Before a folder is synced it is renamed, in place, to a sibling named after
// the time of the backup:
//
//	.minecraft/
//	├── mods/                          (recreated by the sync)
//	├── mods.bak.20240101_120000/
//	├── mods.bak.20240101_120000-2/    (second backup within the same second)
//	└── mods.bak.20231231_090000/
//
// The rename is atomic on a single filesystem and preserves the folder's
// contents byte for byte. After each backup the oldest siblings beyond the
// retention count are deleted; deletion failures are returned in
// [Result.CleanupErrors] and never fail the backup.
//
// Backups are ordered by modification time, newest first, with ties broken
// by name. [Manager.Latest] is what a rollback restores.
package backup

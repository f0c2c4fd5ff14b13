// Package rollback puts the newest backup of each managed folder back in
// place of the live folder.
//
// Rollback is single-level: only the newest backup of a folder is consulted,
// and restoring it consumes it. Folders are rolled back independently, so
// one failed rename does not stop the others.
package rollback

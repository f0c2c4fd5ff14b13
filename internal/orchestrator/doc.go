// Package orchestrator runs a sync: it resolves the game directory, backs
// up and mirrors each enabled folder in a fixed order, and rolls back when
// the run cannot complete.
//
// A run moves through these states, logged at debug level:
//
//	init -> path-resolved -> (backing-up -> syncing -> recorded)* -> reporting -> done
//
// Any failure after path-resolved that is not contained in a single folder's
// result enters error-recovery, which restores folders according to the
// configured rollback scope before the run ends.
package orchestrator

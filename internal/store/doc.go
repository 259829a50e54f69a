// Package store provides SQLite-backed storage for classification snapshots.
//
// A snapshot is the list of placements produced by one classification run
// together with its assignment fingerprint and the hash of the category table
// that produced it. Comparing the latest snapshot with a fresh run shows which
// chapters would change heading before the change reaches the site.
//
// # Ordering
//
// Snapshots are ordered by seq, a logical counter assigned on insert. Wall
// clock time is never stored. Placements are read back ORDER BY position, the
// order the engine emitted them in.
//
// # Deduplication
//
// Saving a run whose fingerprint and table hash both equal the latest
// snapshot returns that snapshot instead of writing a new one.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: placements cascade with their snapshot
package store

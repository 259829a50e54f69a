// Package taxonomy assigns chapters to topic categories.
//
// Classify partitions a flat list of items into the groups of an ordered
// category table. Each category claims items in two passes: first the
// slugs it lists explicitly, then any remaining item whose title matches
// one of its triggers. Categories run strictly in table order and an item
// is removed from the pool the moment it is claimed, so the earliest
// category always wins. Whatever is left lands in a trailing overflow group.
//
// Key guarantees:
//   - Every input item appears in exactly one output group
//   - Output order is table order; the overflow group is always last
//   - Explicit members keep their listed order, pattern matches keep input order
//   - Empty groups are omitted
//
// The package is pure: it performs no I/O, keeps no state between calls and
// never logs. Invalid input fails the whole call before any group is built.
package taxonomy

// Package store provides the SQLite-backed content-addressed action store.
//
// The store implements the substrate every versioned entity is built on:
//   - Actions: immutable Create/Update/Delete records, keyed by content address
//   - Anchors: entry-only nodes derived from a well-known name
//   - Links: timestamped edges between addresses, tagged with a link kind
//   - Link deletes: records that hide a link from reads; links are never removed
//
// # Critical Patterns
//
// Content addressing
//   - Addresses are computed in internal/ir from RFC 8785 canonical JSON
//   - Writes use ON CONFLICT(address) DO NOTHING, so identical content written
//     twice yields one record and one address
//
// Natural order
//   - Every read returns rows ORDER BY seq ASC (insertion order)
//   - Callers use this order as the deterministic tie-break for equal timestamps
//
// Link guards
//   - DeleteLink consults registered guards before any mutation, so a policy
//     such as "revision links are append-only" holds for every caller
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

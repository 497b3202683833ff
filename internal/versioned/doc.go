// Package versioned implements the versioned-entry protocol over an
// append-only, content-addressed action log.
//
// Entities are never overwritten. An entity's lifecycle is a graph:
//
//	Create (original) ──UpdatesLink──▶ Update
//	        │         ──UpdatesLink──▶ Update
//	        ◀── Delete (tombstone)
//	anchor ──GlobalLink──▶ Create
//	author ──AuthorLink──▶ Create
//
// The original action's address is the entity's stable identifier. Every
// update writes a new action whose Previous names the action it revises, and
// adds one revision link from the original to the new action. A delete writes
// a tombstone against the original and removes anchor links.
//
// COMPONENTS:
//
//   - RevisionIndex: append-only revision links (deletion is a policy violation)
//   - Tombstones: delete actions recorded against an original
//   - ResolveLatest: max-by-timestamp over revision links
//   - FullHistory: original followed by revisions in link order
//   - Anchors: enumeration indices keyed by a named anchor or an author
//   - Collection: the protocol instantiated for one EntryKind
//
// ORDERING:
//
// The only ordering available is the author wall-clock timestamp on each link
// or action, which is not causally synchronized across authors. Ties are
// broken by the substrate's natural (insertion) order: ResolveLatest keeps the
// last of equal maxima, Tombstones.Oldest keeps the first of equal minima.
//
// No state is kept outside the substrate. Every read is a traversal of
// actions and links visible to this node at call time.
package versioned

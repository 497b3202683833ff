// Package harness runs conformance scenarios against the portfolio
// collections.
//
// A scenario is a YAML file listing writes made by numbered agents at fixed
// timestamps, followed by assertions over the resulting reads. Every scenario
// runs against a fresh in-memory store, so traces are reproducible and can be
// compared against golden files.
//
// # Scenario Format
//
//	name: racing_deletes
//	description: "Two agents tombstone the same coin"
//	flow:
//	  - op: create
//	    kind: coin
//	    at: 10
//	    ref: btc
//	    entry: { id: bitcoin, name: Bitcoin, symbol: BTC, image: "" }
//	  - op: delete
//	    kind: coin
//	    as: 2
//	    at: 50
//	    original: btc
//	    ref: d1
//	  - op: delete
//	    kind: coin
//	    at: 30
//	    original: d1
//	    expect: POLICY_VIOLATION
//	assertions:
//	  - type: oldest_delete
//	    kind: coin
//	    ref: btc
//	    expect: [d1]
//
// Refs name the address a step produced. Later steps and assertions refer to
// addresses only by ref, which keeps scenarios and golden traces free of
// content hashes.
//
// # Assertion Types
//
//   - latest: the head of the revision chain, or nothing
//   - history: the original followed by its visible revisions
//   - deletes: every tombstone recorded against the entity
//   - oldest_delete: the earliest tombstone, or nothing
//   - index: raw links from the global index, or from an author's index
//   - live_index: the same links resolved and filtered to live entities
package harness

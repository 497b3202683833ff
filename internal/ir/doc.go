// Package ir provides the foundational types shared by every revlog package.
//
// This package contains type definitions, canonical encoding, and content
// addressing only. All other internal packages import ir; ir imports nothing
// internal.
//
// Key design constraints:
//   - Actions and links are immutable; their address is a function of content
//   - Entry payloads use the sealed Value types (no floats, no nulls when hashed)
//   - All JSON tags use snake_case
//   - Timestamps are wall-clock microseconds recorded by the author at write time
package ir

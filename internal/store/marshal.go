package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

// marshalEntry converts an entry to canonical JSON TEXT for storage.
// A nil entry (Delete actions) is stored as NULL.
func marshalEntry(entry ir.Object) (sql.NullString, error) {
	if entry == nil {
		return sql.NullString{}, nil
	}
	data, err := ir.MarshalCanonical(entry)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal entry: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalEntry parses canonical JSON TEXT back into an entry.
// ir.Object decoding keeps integers exact (no float64 round trip).
func unmarshalEntry(data sql.NullString) (ir.Object, error) {
	if !data.Valid {
		return nil, nil
	}
	var obj ir.Object
	if err := json.Unmarshal([]byte(data.String), &obj); err != nil {
		return nil, fmt.Errorf("unmarshal entry: %w", err)
	}
	return obj, nil
}

// nullAddress stores an empty address as NULL.
func nullAddress(a ir.Address) sql.NullString {
	if a.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: string(a), Valid: true}
}

package portfolio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/versioned"
)

// Kind is the untyped view of one entity kind, as the CLI drives it.
type Kind interface {
	// Collection returns the protocol instance for the kind.
	Collection() *versioned.Collection

	// ParseEntry decodes a JSON payload into the kind's entry form.
	// Unknown fields are rejected.
	ParseEntry(data []byte) (ir.Object, error)
}

// Records is a typed collection of entities of type T.
type Records[T any] struct {
	coll   *versioned.Collection
	encode func(T) ir.Object
	decode func(ir.Object) (T, error)
}

func newRecords[T any](coll *versioned.Collection, encode func(T) ir.Object, decode func(ir.Object) (T, error)) *Records[T] {
	return &Records[T]{coll: coll, encode: encode, decode: decode}
}

// Collection implements Kind.
func (r *Records[T]) Collection() *versioned.Collection {
	return r.coll
}

// ParseEntry implements Kind.
func (r *Records[T]) ParseEntry(data []byte) (ir.Object, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.coll.Kind().Name, err)
	}
	return r.encode(v), nil
}

// Create stores v as a new entity.
func (r *Records[T]) Create(ctx context.Context, v T) (*ir.Action, error) {
	return r.coll.Create(ctx, r.encode(v))
}

// Update stores v as a revision of previous within original's chain.
func (r *Records[T]) Update(ctx context.Context, original, previous ir.Address, v T) (*ir.Action, error) {
	return r.coll.Update(ctx, original, previous, r.encode(v))
}

// Latest returns the current value of the entity, and false if it is not
// visible.
func (r *Records[T]) Latest(ctx context.Context, original ir.Address) (T, bool, error) {
	var zero T
	action, err := r.coll.GetLatest(ctx, original)
	if err != nil || action == nil {
		return zero, false, err
	}
	v, err := r.Decode(*action)
	if err != nil {
		return zero, false, err
	}
	return v, true, nil
}

// Decode extracts the typed entry of an action of this kind.
func (r *Records[T]) Decode(action ir.Action) (T, error) {
	var zero T
	if !action.HasEntry() {
		return zero, fmt.Errorf("decode %s %s: %s action has no entry", r.coll.Kind().Name, action.Address, action.Type)
	}
	if action.EntryType != r.coll.Kind().Name {
		return zero, fmt.Errorf("decode %s %s: entry type is %s", r.coll.Kind().Name, action.Address, action.EntryType)
	}
	v, err := r.decode(action.Entry)
	if err != nil {
		return zero, fmt.Errorf("decode %s %s: %w", r.coll.Kind().Name, action.Address, err)
	}
	return v, nil
}

package ir

import (
	"fmt"
	"time"
)

// Timestamp is wall-clock time in microseconds since the Unix epoch, as
// recorded by the author when the action or link was written. Timestamps are
// not causally synchronized across authors.
type Timestamp int64

// TimestampOf converts a time.Time to a Timestamp.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Time converts the timestamp to a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.UnixMicro(int64(ts)).UTC()
}

// ActionType discriminates the three kinds of log action.
type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// Valid reports whether t is one of the known action types.
func (t ActionType) Valid() bool {
	switch t {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Action is an immutable, content-addressed unit of the append-only log.
//
// Create and Update actions embed an Entry. An Update names the specific
// action it revises in Previous. A Delete names the action it tombstones in
// Deletes and carries no entry.
type Action struct {
	Address   Address    `json:"address"`
	Type      ActionType `json:"type"`
	Author    Address    `json:"author"`
	Timestamp Timestamp  `json:"timestamp"`
	EntryType string     `json:"entry_type,omitempty"`
	Entry     Object     `json:"entry,omitempty"`
	Previous  Address    `json:"previous,omitempty"`
	Deletes   Address    `json:"deletes,omitempty"`
}

// HasEntry reports whether the action carries an entry payload.
func (a Action) HasEntry() bool {
	return a.Type == ActionCreate || a.Type == ActionUpdate
}

// Validate checks the structural rules for an action's discriminant.
func (a Action) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("invalid action type %q", a.Type)
	}
	if a.Author.IsZero() {
		return fmt.Errorf("%s action: author is required", a.Type)
	}
	switch a.Type {
	case ActionCreate, ActionUpdate:
		if a.EntryType == "" {
			return fmt.Errorf("%s action: entry type is required", a.Type)
		}
		if a.Entry == nil {
			return fmt.Errorf("%s action: entry is required", a.Type)
		}
		if !a.Deletes.IsZero() {
			return fmt.Errorf("%s action: must not reference a deleted action", a.Type)
		}
		if a.Type == ActionCreate && !a.Previous.IsZero() {
			return fmt.Errorf("create action: must not reference a previous action")
		}
		if a.Type == ActionUpdate && a.Previous.IsZero() {
			return fmt.Errorf("update action: previous action is required")
		}
	case ActionDelete:
		if a.Entry != nil {
			return fmt.Errorf("delete action: must not carry an entry")
		}
		if a.Deletes.IsZero() {
			return fmt.Errorf("delete action: deleted action is required")
		}
		if !a.Previous.IsZero() {
			return fmt.Errorf("delete action: must not reference a previous action")
		}
	}
	return nil
}

// Content returns the hashed content of the action: every field except the
// address itself.
func (a Action) Content() Object {
	obj := Object{
		"v":         String(DomainAction),
		"type":      String(a.Type),
		"author":    String(a.Author),
		"timestamp": Int(a.Timestamp),
	}
	if a.EntryType != "" {
		obj["entry_type"] = String(a.EntryType)
	}
	if a.Entry != nil {
		obj["entry"] = a.Entry
	}
	if !a.Previous.IsZero() {
		obj["previous"] = String(a.Previous)
	}
	if !a.Deletes.IsZero() {
		obj["deletes"] = String(a.Deletes)
	}
	return obj
}

// ComputeAddress returns the content address of the action.
// Identical content always yields the same address; any change yields a new one.
func (a Action) ComputeAddress() (Address, error) {
	canonical, err := MarshalCanonical(a.Content())
	if err != nil {
		return "", fmt.Errorf("action address: %w", err)
	}
	return sumAddress(CodecAction, canonical)
}

// Sealed returns a copy of the action with Address set from its content.
func (a Action) Sealed() (Action, error) {
	if err := a.Validate(); err != nil {
		return Action{}, err
	}
	addr, err := a.ComputeAddress()
	if err != nil {
		return Action{}, err
	}
	a.Address = addr
	return a, nil
}

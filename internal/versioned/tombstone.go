package versioned

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/revlog/internal/ir"
)

// Tombstones records and queries Delete actions against original actions.
type Tombstones struct {
	sub     Substrate
	session Session
}

// NewTombstones creates a tombstone tracker writing as session.
func NewTombstones(sub Substrate, session Session) *Tombstones {
	return &Tombstones{sub: sub, session: session}
}

// Record writes one Delete action against original and returns its address.
//
// Fails with NotFound if original is not visible, MalformedDetails if it is
// an entry-only node, and PolicyViolation if it carries no entry.
func (t *Tombstones) Record(ctx context.Context, original ir.Address) (ir.Address, error) {
	details, err := recordDetails(ctx, t.sub, original)
	if err != nil {
		return "", err
	}
	if details == nil {
		return "", newNotFound(original, "action to delete not found")
	}
	if !details.Record.HasEntry() {
		return "", newPolicyViolation(original, "cannot delete a %s action", details.Record.Type)
	}

	addr, err := t.sub.PutAction(ctx, ir.Action{
		Type:      ir.ActionDelete,
		Author:    t.session.Author,
		Timestamp: t.session.now(),
		Deletes:   original,
	})
	if err != nil {
		return "", fmt.Errorf("record delete: %w", err)
	}
	return addr, nil
}

// All returns every Delete action recorded against original, in the
// substrate's natural order. Returns nil if original is not visible, which
// means there is nothing here to delete.
func (t *Tombstones) All(ctx context.Context, original ir.Address) ([]ir.Action, error) {
	details, err := recordDetails(ctx, t.sub, original)
	if err != nil || details == nil {
		return nil, err
	}
	if details.Deletes == nil {
		return []ir.Action{}, nil
	}
	return details.Deletes, nil
}

// Oldest returns the Delete with the minimum timestamp, or nil if there are
// none. Among equal timestamps the first in natural order wins.
func (t *Tombstones) Oldest(ctx context.Context, original ir.Address) (*ir.Action, error) {
	deletes, err := t.All(ctx, original)
	if err != nil || len(deletes) == 0 {
		return nil, err
	}
	oldest := slices.MinFunc(deletes, func(a, b ir.Action) int {
		return cmpTimestamp(a.Timestamp, b.Timestamp)
	})
	return &oldest, nil
}

func cmpTimestamp(a, b ir.Timestamp) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

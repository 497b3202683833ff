package versioned

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/store"
)

// RevisionIndex is the append-only set of revision links for one entity kind.
// Every link runs from an original action to one of its revisions.
type RevisionIndex struct {
	sub     Substrate
	session Session
	kind    ir.LinkKind
}

// NewRevisionIndex creates a revision index for links of the given kind.
func NewRevisionIndex(sub Substrate, session Session, kind ir.LinkKind) *RevisionIndex {
	return &RevisionIndex{sub: sub, session: session, kind: kind}
}

// Kind returns the link kind of this index.
func (r *RevisionIndex) Kind() ir.LinkKind {
	return r.kind
}

// Create appends a permanent link from original to revision, stamped with the
// session clock.
//
// original must be a Create action and revision an Update carrying the same
// entry type. Missing actions are NotFound; anything else is a
// PolicyViolation. Nothing is written unless both checks pass.
func (r *RevisionIndex) Create(ctx context.Context, original, revision ir.Address) (ir.Address, error) {
	orig, err := r.endpoint(ctx, original, "original", ir.ActionCreate)
	if err != nil {
		return "", err
	}
	rev, err := r.endpoint(ctx, revision, "revision", ir.ActionUpdate)
	if err != nil {
		return "", err
	}
	if rev.EntryType != orig.EntryType {
		return "", newPolicyViolation(revision, "%s link from a %s entry to a %s entry", r.kind, orig.EntryType, rev.EntryType)
	}

	addr, err := r.sub.CreateLink(ctx, ir.Link{
		Base:      original,
		Target:    revision,
		Kind:      r.kind,
		Author:    r.session.Author,
		Timestamp: r.session.now(),
	})
	if err != nil {
		return "", fmt.Errorf("create %s link: %w", r.kind, err)
	}
	return addr, nil
}

// endpoint fetches one end of a revision link and checks its action type.
func (r *RevisionIndex) endpoint(ctx context.Context, addr ir.Address, role string, want ir.ActionType) (*ir.Action, error) {
	action, err := r.sub.GetAction(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("get %s for %s link: %w", role, r.kind, err)
	}
	if action == nil {
		return nil, newNotFound(addr, "%s for %s link not found", role, r.kind)
	}
	if action.Type != want {
		return nil, newPolicyViolation(addr, "%s link %s must be a %s action, found %s", r.kind, role, want, action.Type)
	}
	return action, nil
}

// List returns every revision link from original in the substrate's natural
// order. The order carries no meaning; callers that need one must sort.
func (r *RevisionIndex) List(ctx context.Context, original ir.Address) ([]ir.Link, error) {
	links, err := r.sub.GetLinks(ctx, original, r.kind)
	if err != nil {
		return nil, fmt.Errorf("list %s links: %w", r.kind, err)
	}
	return links, nil
}

// Delete always fails. Revision links are the sole record of lineage.
func (r *RevisionIndex) Delete(_ context.Context, link ir.Address) error {
	return newPolicyViolation(link, "%s links cannot be deleted", r.kind)
}

// RevisionGuard returns a store guard that rejects deletion of any link whose
// kind is one of kinds, regardless of who asks.
func RevisionGuard(kinds ...ir.LinkKind) store.LinkGuard {
	kinds = slices.Clone(kinds)
	return func(_ context.Context, link ir.Link) error {
		if slices.Contains(kinds, link.Kind) {
			return newPolicyViolation(link.Address, "%s links cannot be deleted", link.Kind)
		}
		return nil
	}
}

package versioned

import (
	"context"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

// Anchors maintains enumeration links from well-known index nodes to entity
// originals. Anchors are never used for version resolution.
type Anchors struct {
	sub     Substrate
	session Session
}

// NewAnchors creates an anchor index writing as session.
func NewAnchors(sub Substrate, session Session) *Anchors {
	return &Anchors{sub: sub, session: session}
}

// Global returns the address of the named global anchor.
func (a *Anchors) Global(ctx context.Context, name string) (ir.Address, error) {
	addr, err := a.sub.DeriveAnchorAddress(ctx, name)
	if err != nil {
		return "", fmt.Errorf("anchor %q: %w", name, err)
	}
	return addr, nil
}

// Register links anchor to entity.
func (a *Anchors) Register(ctx context.Context, anchor ir.Address, kind ir.LinkKind, entity ir.Address) (ir.Address, error) {
	addr, err := a.sub.CreateLink(ctx, ir.Link{
		Base:      anchor,
		Target:    entity,
		Kind:      kind,
		Author:    a.session.Author,
		Timestamp: a.session.now(),
	})
	if err != nil {
		return "", fmt.Errorf("register %s link: %w", kind, err)
	}
	return addr, nil
}

// RegisterGlobal links the named global anchor to entity.
func (a *Anchors) RegisterGlobal(ctx context.Context, name string, kind ir.LinkKind, entity ir.Address) (ir.Address, error) {
	anchor, err := a.Global(ctx, name)
	if err != nil {
		return "", err
	}
	return a.Register(ctx, anchor, kind, entity)
}

// RegisterAuthor links an author's index to entity.
func (a *Anchors) RegisterAuthor(ctx context.Context, author ir.Address, kind ir.LinkKind, entity ir.Address) (ir.Address, error) {
	return a.Register(ctx, author, kind, entity)
}

// Deregister removes every live link of kind from anchor whose target is
// entity, and returns how many were removed. Removing an already absent link
// is a no-op.
func (a *Anchors) Deregister(ctx context.Context, anchor ir.Address, kind ir.LinkKind, entity ir.Address) (int, error) {
	links, err := a.Enumerate(ctx, anchor, kind)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, link := range links {
		if link.Target != entity {
			continue
		}
		err := a.sub.DeleteLink(ctx, ir.LinkDelete{
			Link:      link.Address,
			Author:    a.session.Author,
			Timestamp: a.session.now(),
		})
		if err != nil {
			return removed, fmt.Errorf("deregister %s link %s: %w", kind, link.Address, err)
		}
		removed++
	}
	return removed, nil
}

// Enumerate returns the raw links of kind from anchor. Targets that have since
// been tombstoned are included; see FilterLive.
func (a *Anchors) Enumerate(ctx context.Context, anchor ir.Address, kind ir.LinkKind) ([]ir.Link, error) {
	links, err := a.sub.GetLinks(ctx, anchor, kind)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", kind, err)
	}
	return links, nil
}

// FilterLive resolves anchor link targets and keeps the originals that are
// visible and carry no tombstone, preserving link order.
func FilterLive(ctx context.Context, sub Substrate, links []ir.Link) ([]ir.Action, error) {
	live := make([]ir.Action, 0, len(links))
	for _, link := range links {
		target, err := actionTarget(link)
		if err != nil {
			return nil, err
		}
		details, err := recordDetails(ctx, sub, target)
		if err != nil {
			return nil, err
		}
		if details == nil || len(details.Deletes) > 0 {
			continue
		}
		live = append(live, details.Record)
	}
	return live, nil
}

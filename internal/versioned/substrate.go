package versioned

import (
	"context"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/store"
)

// Substrate is the content-addressed action store the protocol runs on.
//
// GetAction and GetDetails return nil, not an error, for addresses this node
// cannot see. Partial visibility is legal.
type Substrate interface {
	PutAction(ctx context.Context, action ir.Action) (ir.Address, error)
	GetAction(ctx context.Context, addr ir.Address) (*ir.Action, error)
	GetDetails(ctx context.Context, addr ir.Address) (ir.Details, error)

	CreateLink(ctx context.Context, link ir.Link) (ir.Address, error)
	GetLinks(ctx context.Context, base ir.Address, kind ir.LinkKind) ([]ir.Link, error)
	GetLink(ctx context.Context, addr ir.Address) (*ir.Link, error)
	DeleteLink(ctx context.Context, del ir.LinkDelete) error

	DeriveAnchorAddress(ctx context.Context, name string) (ir.Address, error)
}

var _ Substrate = (*store.Store)(nil)

// recordDetails fetches the details of addr and requires the record shape.
// Returns nil if the address is not visible.
func recordDetails(ctx context.Context, sub Substrate, addr ir.Address) (*ir.RecordDetails, error) {
	details, err := sub.GetDetails(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("get details %s: %w", addr, err)
	}
	switch d := details.(type) {
	case nil:
		return nil, nil
	case *ir.RecordDetails:
		return d, nil
	case *ir.EntryDetails:
		return nil, newMalformedDetails(addr, d)
	}
	return nil, newMalformedDetails(addr, details)
}

// actionTarget interprets a link target as an action address.
func actionTarget(link ir.Link) (ir.Address, error) {
	if !link.Target.IsAction() {
		return "", newMalformedLink(link)
	}
	return link.Target, nil
}

package versioned

import (
	"context"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

// ResolveLatest returns the current head of original's revision chain.
//
// The head is the target of the revision link with the greatest timestamp;
// among equal timestamps the last link in natural order wins. With no links
// the original is its own head. A link whose target is not an action address
// fails the call with MalformedLink. Returns nil if the head is not visible.
func ResolveLatest(ctx context.Context, sub Substrate, kind ir.LinkKind, original ir.Address) (*ir.Action, error) {
	links, err := sub.GetLinks(ctx, original, kind)
	if err != nil {
		return nil, fmt.Errorf("resolve latest %s: %w", original, err)
	}

	head := original
	if latest := latestLink(links); latest != nil {
		head, err = actionTarget(*latest)
		if err != nil {
			return nil, err
		}
	}

	action, err := sub.GetAction(ctx, head)
	if err != nil {
		return nil, fmt.Errorf("resolve latest %s: %w", original, err)
	}
	return action, nil
}

func latestLink(links []ir.Link) *ir.Link {
	var latest *ir.Link
	for i := range links {
		if latest == nil || links[i].Timestamp >= latest.Timestamp {
			latest = &links[i]
		}
	}
	return latest
}

package versioned

import (
	"context"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

// FullHistory returns original followed by every visible revision, in link
// discovery order. The tail is not sorted by timestamp.
//
// Returns an empty slice if original is not visible. Revisions that cannot be
// fetched are skipped. Any link whose target is not an action address fails
// the whole call with MalformedLink.
func FullHistory(ctx context.Context, sub Substrate, kind ir.LinkKind, original ir.Address) ([]ir.Action, error) {
	details, err := recordDetails(ctx, sub, original)
	if err != nil {
		return nil, err
	}
	if details == nil {
		return []ir.Action{}, nil
	}

	links, err := sub.GetLinks(ctx, original, kind)
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", original, err)
	}

	targets := make([]ir.Address, 0, len(links))
	for _, link := range links {
		target, err := actionTarget(link)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}

	history := make([]ir.Action, 0, len(targets)+1)
	history = append(history, details.Record)
	for _, target := range targets {
		action, err := sub.GetAction(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", original, err)
		}
		if action != nil {
			history = append(history, *action)
		}
	}
	return history, nil
}

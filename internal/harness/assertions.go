package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/revlog/internal/ir"
)

// AssertionContext provides what assertions need to read the store.
type AssertionContext struct {
	Ctx     context.Context
	Harness *Harness
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("Assertion failed: %s\n  Expected: %s\n  Actual: %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions runs every assertion and returns one message per failure.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(a Assertion, actx *AssertionContext) error {
	h := actx.Harness
	got, err := read(actx.Ctx, h, a)
	if err != nil {
		return err
	}

	names := make([]string, len(got))
	for i, addr := range got {
		names[i] = h.name(addr)
	}
	want := a.Expect
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(names, want) {
		return &AssertionError{
			Type:     a.Type,
			Expected: describe(want),
			Actual:   describe(names),
		}
	}
	return nil
}

// read performs the assertion's read and returns the addresses it yields.
func read(ctx context.Context, h *Harness, a Assertion) ([]ir.Address, error) {
	k, err := h.kind(1, a.Kind)
	if err != nil {
		return nil, err
	}
	coll := k.Collection()
	original := h.refs[a.Ref]

	switch a.Type {
	case AssertLatest:
		latest, err := coll.GetLatest(ctx, original)
		return single(latest), err
	case AssertOldestDelete:
		oldest, err := coll.GetOldestDelete(ctx, original)
		return single(oldest), err
	case AssertHistory:
		history, err := coll.GetHistory(ctx, original)
		return addresses(history), err
	case AssertDeletes:
		deletes, err := coll.GetDeletes(ctx, original)
		return addresses(deletes), err
	case AssertIndex, AssertLiveIndex:
		links, err := indexLinks(ctx, h, a)
		if err != nil {
			return nil, err
		}
		if a.Type == AssertIndex {
			targets := make([]ir.Address, len(links))
			for i, l := range links {
				targets[i] = l.Target
			}
			return targets, nil
		}
		live, err := coll.FilterLive(ctx, links)
		return addresses(live), err
	}
	return nil, fmt.Errorf("unknown assertion type %q", a.Type)
}

func indexLinks(ctx context.Context, h *Harness, a Assertion) ([]ir.Link, error) {
	k, err := h.kind(1, a.Kind)
	if err != nil {
		return nil, err
	}
	if a.Author == 0 {
		return k.Collection().ListAll(ctx)
	}
	author, err := agentAddress(a.Author)
	if err != nil {
		return nil, err
	}
	return k.Collection().ListByAuthor(ctx, author)
}

func single(a *ir.Action) []ir.Address {
	if a == nil {
		return nil
	}
	return []ir.Address{a.Address}
}

func addresses(actions []ir.Action) []ir.Address {
	out := make([]ir.Address, len(actions))
	for i, a := range actions {
		out[i] = a.Address
	}
	return out
}

func describe(refs []string) string {
	if len(refs) == 0 {
		return "nothing"
	}
	return "[" + strings.Join(refs, ", ") + "]"
}

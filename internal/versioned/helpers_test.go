package versioned

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/store"
	"github.com/roach88/revlog/internal/testutil"
)

var (
	coinKind = EntryKind{
		Name:        "coin",
		UpdatesLink: "CoinUpdates",
	}
	profileKind = EntryKind{
		Name:         "stakeholder_profile",
		UpdatesLink:  "StakeholderProfileUpdates",
		GlobalAnchor: "all_stakeholder_profiles",
		GlobalLink:   "AllStakeholderProfiles",
		AuthorLink:   "StakeholderProfile",
	}
)

// fixture is one node: a guarded store plus a session writing as author 1.
type fixture struct {
	store   *store.Store
	clock   *testutil.ManualClock
	session Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := testutil.OpenStore(t, store.WithLinkGuard(RevisionGuard(coinKind.UpdatesLink, profileKind.UpdatesLink)))
	clock := testutil.NewManualClock(1)
	return &fixture{
		store:   s,
		clock:   clock,
		session: Session{Author: testutil.Agent(t, 1), Clock: clock},
	}
}

// collection returns a collection for kind writing as the fixture session.
func (f *fixture) collection(t *testing.T, kind EntryKind) *Collection {
	t.Helper()
	return f.collectionAs(t, kind, f.session)
}

func (f *fixture) collectionAs(t *testing.T, kind EntryKind, session Session) *Collection {
	t.Helper()
	c, err := NewCollection(f.store, session, kind,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithOpIDGenerator(testutil.NewFixedOpGenerator("")),
	)
	require.NoError(t, err)
	return c
}

// at pins the fixture clock for the next write made through c.
func at(f *fixture, ts ir.Timestamp, c *Collection) *Collection {
	f.clock.Set(ts)
	return c
}

func named(name string) ir.Object {
	return ir.Object{"name": ir.String(name)}
}

// partialSubstrate hides some addresses from reads, as a node with partial
// visibility of the log would.
type partialSubstrate struct {
	Substrate
	hidden map[ir.Address]bool
}

func (p partialSubstrate) GetAction(ctx context.Context, addr ir.Address) (*ir.Action, error) {
	if p.hidden[addr] {
		return nil, nil
	}
	return p.Substrate.GetAction(ctx, addr)
}

func (p partialSubstrate) GetDetails(ctx context.Context, addr ir.Address) (ir.Details, error) {
	if p.hidden[addr] {
		return nil, nil
	}
	return p.Substrate.GetDetails(ctx, addr)
}

var errUnreachable = errors.New("substrate unreachable")

// failingLinks fails every link write.
type failingLinks struct {
	Substrate
}

func (failingLinks) CreateLink(context.Context, ir.Link) (ir.Address, error) {
	return "", errUnreachable
}

package versioned

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/testutil"
)

func TestRevisionIndex_DeleteIsPolicyViolation(t *testing.T) {
	f := newFixture(t)
	coins := f.collection(t, coinKind)
	ctx := context.Background()

	h0, err := at(f, 10, coins).Create(ctx, named("v0"))
	require.NoError(t, err)
	_, err = at(f, 20, coins).Update(ctx, h0.Address, h0.Address, named("v1"))
	require.NoError(t, err)

	links, err := coins.Revisions().List(ctx, h0.Address)
	require.NoError(t, err)
	require.Len(t, links, 1)

	err = coins.Revisions().Delete(ctx, links[0].Address)
	assert.True(t, IsPolicyViolation(err), "got %v", err)
}

func TestRevisionGuard_RejectsStoreDelete(t *testing.T) {
	f := newFixture(t)
	coins := f.collection(t, coinKind)
	ctx := context.Background()

	h0, err := at(f, 10, coins).Create(ctx, named("v0"))
	require.NoError(t, err)
	h1, err := at(f, 20, coins).Update(ctx, h0.Address, h0.Address, named("v1"))
	require.NoError(t, err)

	links, err := coins.Revisions().List(ctx, h0.Address)
	require.NoError(t, err)
	require.Len(t, links, 1)

	// Any author, straight at the substrate.
	for _, seed := range []byte{1, 2, 3} {
		err = f.store.DeleteLink(ctx, ir.LinkDelete{
			Link:      links[0].Address,
			Author:    testutil.Agent(t, seed),
			Timestamp: 30,
		})
		assert.True(t, IsPolicyViolation(err), "author %d: got %v", seed, err)
	}

	latest, err := coins.GetLatest(ctx, h0.Address)
	require.NoError(t, err)
	assert.Equal(t, h1.Address, latest.Address, "revision chain must be untouched")
}

func TestRevisionGuard_AllowsOtherKinds(t *testing.T) {
	guard := RevisionGuard("CoinUpdates")

	assert.NoError(t, guard(context.Background(), ir.Link{Kind: "AllStakeholderProfiles"}))
	assert.True(t, IsPolicyViolation(guard(context.Background(), ir.Link{Kind: "CoinUpdates"})))
}

func TestResolveLatest_MalformedLink(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		target func(t *testing.T, f *fixture, original ir.Address) ir.Address
	}{
		{
			name: "anchor target",
			target: func(t *testing.T, f *fixture, original ir.Address) ir.Address {
				addr, err := f.store.DeriveAnchorAddress(ctx, "all_stakeholder_profiles")
				require.NoError(t, err)
				return addr
			},
		},
		{
			name: "agent target",
			target: func(t *testing.T, f *fixture, original ir.Address) ir.Address {
				return testutil.Agent(t, 9)
			},
		},
		{
			name: "link target",
			target: func(t *testing.T, f *fixture, original ir.Address) ir.Address {
				links, err := f.store.GetLinks(ctx, original, coinKind.UpdatesLink)
				require.NoError(t, err)
				require.NotEmpty(t, links)
				return links[0].Address
			},
		},
		{
			name: "unparseable target",
			target: func(*testing.T, *fixture, ir.Address) ir.Address {
				return "not-an-address"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			coins := f.collection(t, coinKind)

			h0, err := at(f, 10, coins).Create(ctx, named("v0"))
			require.NoError(t, err)
			_, err = at(f, 20, coins).Update(ctx, h0.Address, h0.Address, named("v1"))
			require.NoError(t, err)

			// The corrupt link is the newest, so it must be chosen and must fail.
			_, err = f.store.CreateLink(ctx, ir.Link{
				Base:      h0.Address,
				Target:    tt.target(t, f, h0.Address),
				Kind:      coinKind.UpdatesLink,
				Author:    f.session.Author,
				Timestamp: 500,
			})
			require.NoError(t, err)

			latest, err := coins.GetLatest(ctx, h0.Address)
			assert.True(t, IsMalformedLink(err), "got %v", err)
			assert.Nil(t, latest, "a corrupt link must never fall back to the original")

			_, err = coins.GetHistory(ctx, h0.Address)
			assert.True(t, IsMalformedLink(err), "got %v", err)
		})
	}
}

func TestResolveLatest_SubstrateFailurePropagates(t *testing.T) {
	f := newFixture(t)
	coins := f.collection(t, coinKind)
	ctx := context.Background()

	h0, err := coins.Create(ctx, named("v0"))
	require.NoError(t, err)
	require.NoError(t, f.store.Close())

	_, err = coins.GetLatest(ctx, h0.Address)
	assert.Error(t, err)
	assert.Empty(t, CodeOf(err), "substrate failures are not protocol errors")
}

func TestRevisionIndex_CreateChecksEndpoints(t *testing.T) {
	f := newFixture(t)
	coins := f.collection(t, coinKind)
	profiles := f.collection(t, profileKind)
	ctx := context.Background()

	h0, err := at(f, 10, coins).Create(ctx, named("v0"))
	require.NoError(t, err)
	h1, err := at(f, 20, coins).Update(ctx, h0.Address, h0.Address, named("v1"))
	require.NoError(t, err)
	other, err := at(f, 30, coins).Create(ctx, named("other"))
	require.NoError(t, err)
	p0, err := at(f, 40, profiles).Create(ctx, named("p0"))
	require.NoError(t, err)
	p1, err := at(f, 50, profiles).Update(ctx, p0.Address, p0.Address, named("p1"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		original ir.Address
		revision ir.Address
		is       func(error) bool
	}{
		{"original is an update", h1.Address, h1.Address, IsPolicyViolation},
		{"revision is a create", h0.Address, other.Address, IsPolicyViolation},
		{"revision of another entry type", h0.Address, p1.Address, IsPolicyViolation},
		{"unknown original", testutil.Agent(t, 7), h1.Address, IsNotFound},
		{"unknown revision", h0.Address, testutil.Agent(t, 7), IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coins.Revisions().Create(ctx, tt.original, tt.revision)
			assert.True(t, tt.is(err), "got %v", err)
		})
	}

	links, err := coins.Revisions().List(ctx, h0.Address)
	require.NoError(t, err)
	require.Len(t, links, 1, "rejected links must not be written")
	assert.Equal(t, h1.Address, links[0].Target)
}

package ir

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createAction(ts Timestamp, entry Object) Action {
	return Action{
		Type:      ActionCreate,
		Author:    "bagent",
		Timestamp: ts,
		EntryType: "coin",
		Entry:     entry,
	}
}

func TestActionCanonicalGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	create := createAction(100, Object{"symbol": String("BTC"), "name": String("Bitcoin")})
	data, err := MarshalCanonical(create.Content())
	require.NoError(t, err)
	g.Assert(t, "create_action", data)

	del := Action{Type: ActionDelete, Author: "bagent", Timestamp: 50, Deletes: "boriginal"}
	data, err = MarshalCanonical(del.Content())
	require.NoError(t, err)
	g.Assert(t, "delete_action", data)
}

func TestActionAddressDeterministic(t *testing.T) {
	a1, err := createAction(100, Object{"name": String("Bitcoin")}).Sealed()
	require.NoError(t, err)
	a2, err := createAction(100, Object{"name": String("Bitcoin")}).Sealed()
	require.NoError(t, err)
	assert.Equal(t, a1.Address, a2.Address, "identical content must produce one address")

	a3, err := createAction(101, Object{"name": String("Bitcoin")}).Sealed()
	require.NoError(t, err)
	assert.NotEqual(t, a1.Address, a3.Address, "timestamp change must produce a new address")

	a4, err := createAction(100, Object{"name": String("Ether")}).Sealed()
	require.NoError(t, err)
	assert.NotEqual(t, a1.Address, a4.Address, "entry change must produce a new address")
}

func TestActionAddressIgnoresExistingAddress(t *testing.T) {
	a := createAction(100, Object{"name": String("Bitcoin")})
	sealed, err := a.Sealed()
	require.NoError(t, err)

	a.Address = "bogus"
	resealed, err := a.Sealed()
	require.NoError(t, err)
	assert.Equal(t, sealed.Address, resealed.Address)
}

func TestActionValidate(t *testing.T) {
	entry := Object{"name": String("x")}
	tests := []struct {
		name    string
		action  Action
		wantErr string
	}{
		{"valid create", Action{Type: ActionCreate, Author: "a", EntryType: "coin", Entry: entry}, ""},
		{"valid update", Action{Type: ActionUpdate, Author: "a", EntryType: "coin", Entry: entry, Previous: "p"}, ""},
		{"valid delete", Action{Type: ActionDelete, Author: "a", Deletes: "d"}, ""},
		{"unknown type", Action{Type: "merge", Author: "a"}, "invalid action type"},
		{"missing author", Action{Type: ActionCreate, EntryType: "coin", Entry: entry}, "author is required"},
		{"create without entry", Action{Type: ActionCreate, Author: "a", EntryType: "coin"}, "entry is required"},
		{"create without entry type", Action{Type: ActionCreate, Author: "a", Entry: entry}, "entry type is required"},
		{"create with previous", Action{Type: ActionCreate, Author: "a", EntryType: "coin", Entry: entry, Previous: "p"}, "must not reference a previous"},
		{"update without previous", Action{Type: ActionUpdate, Author: "a", EntryType: "coin", Entry: entry}, "previous action is required"},
		{"delete with entry", Action{Type: ActionDelete, Author: "a", Deletes: "d", Entry: entry}, "must not carry an entry"},
		{"delete without target", Action{Type: ActionDelete, Author: "a"}, "deleted action is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestActionJSON(t *testing.T) {
	a, err := createAction(7, Object{"name": String("Bitcoin")}).Sealed()
	require.NoError(t, err)

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var back Action
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)
}

func TestTimestampConversion(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)
	ts := TimestampOf(now)
	assert.Equal(t, now, ts.Time())
}

func TestLinkSealed(t *testing.T) {
	link := Link{Base: "bbase", Target: "btarget", Kind: "CoinUpdates", Author: "bagent", Timestamp: 5}
	l1, err := link.Sealed()
	require.NoError(t, err)
	l2, err := link.Sealed()
	require.NoError(t, err)
	assert.Equal(t, l1.Address, l2.Address)
	assert.True(t, l1.Address.IsLink())
	assert.False(t, l1.Address.IsAction(), "link addresses must not pass as actions")

	link.Timestamp = 6
	l3, err := link.Sealed()
	require.NoError(t, err)
	assert.NotEqual(t, l1.Address, l3.Address)

	_, err = Link{Base: "b", Target: "t", Author: "a"}.Sealed()
	assert.Error(t, err)
	_, err = Link{Target: "t", Kind: "k", Author: "a"}.Sealed()
	assert.Error(t, err)
}

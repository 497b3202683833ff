package versioned

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryKind_Validate(t *testing.T) {
	tests := []struct {
		name    string
		kind    EntryKind
		wantErr bool
	}{
		{name: "unindexed", kind: coinKind},
		{name: "fully indexed", kind: profileKind},
		{name: "author index only", kind: EntryKind{Name: "x", UpdatesLink: "XUpdates", AuthorLink: "X"}},
		{name: "missing name", kind: EntryKind{UpdatesLink: "XUpdates"}, wantErr: true},
		{name: "missing updates link", kind: EntryKind{Name: "x"}, wantErr: true},
		{name: "anchor without link kind", kind: EntryKind{Name: "x", UpdatesLink: "XUpdates", GlobalAnchor: "all_x"}, wantErr: true},
		{name: "link kind without anchor", kind: EntryKind{Name: "x", UpdatesLink: "XUpdates", GlobalLink: "AllX"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.kind.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEntryKind_Indices(t *testing.T) {
	assert.False(t, coinKind.HasGlobalIndex())
	assert.False(t, coinKind.HasAuthorIndex())
	assert.True(t, profileKind.HasGlobalIndex())
	assert.True(t, profileKind.HasAuthorIndex())
}

package versioned

import (
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

// EntryKind describes one entity kind the protocol is instantiated for.
type EntryKind struct {
	// Name is the entry type recorded on every Create and Update action.
	Name string

	// UpdatesLink is the revision link kind from an original to its revisions.
	UpdatesLink ir.LinkKind

	// GlobalAnchor names the anchor every entity of this kind is listed under.
	// Empty means the kind has no global index.
	GlobalAnchor string

	// GlobalLink is the link kind from GlobalAnchor to each original.
	GlobalLink ir.LinkKind

	// AuthorLink is the link kind from an author to each original they
	// created. Empty means the kind has no author index.
	AuthorLink ir.LinkKind
}

// Validate checks that the descriptor is usable.
func (k EntryKind) Validate() error {
	if k.Name == "" {
		return fmt.Errorf("entry kind: name is required")
	}
	if k.UpdatesLink == "" {
		return fmt.Errorf("entry kind %s: updates link kind is required", k.Name)
	}
	if (k.GlobalAnchor == "") != (k.GlobalLink == "") {
		return fmt.Errorf("entry kind %s: global anchor and global link kind must be set together", k.Name)
	}
	return nil
}

// HasGlobalIndex reports whether entities are listed under a global anchor.
func (k EntryKind) HasGlobalIndex() bool {
	return k.GlobalAnchor != ""
}

// HasAuthorIndex reports whether entities are listed under their author.
func (k EntryKind) HasAuthorIndex() bool {
	return k.AuthorLink != ""
}

package versioned

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/revlog/internal/ir"
)

// Collection is the versioned-entry protocol instantiated for one EntryKind.
//
// It is safe for concurrent use when the substrate is.
type Collection struct {
	kind       EntryKind
	sub        Substrate
	session    Session
	revisions  *RevisionIndex
	tombstones *Tombstones
	anchors    *Anchors
	ops        OpIDGenerator
	logger     *slog.Logger
}

// CollectionOption configures a Collection.
type CollectionOption func(*Collection)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) CollectionOption {
	return func(c *Collection) {
		c.logger = logger
	}
}

// WithOpIDGenerator sets the op token source. The default is UUIDv7Generator.
func WithOpIDGenerator(ops OpIDGenerator) CollectionOption {
	return func(c *Collection) {
		c.ops = ops
	}
}

// NewCollection creates a collection for kind. It returns an error if the
// kind descriptor is incomplete or the session has no author.
func NewCollection(sub Substrate, session Session, kind EntryKind, opts ...CollectionOption) (*Collection, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if session.Author.IsZero() {
		return nil, fmt.Errorf("collection %s: session author is required", kind.Name)
	}

	c := &Collection{
		kind:       kind,
		sub:        sub,
		session:    session,
		revisions:  NewRevisionIndex(sub, session, kind.UpdatesLink),
		tombstones: NewTombstones(sub, session),
		anchors:    NewAnchors(sub, session),
		ops:        UUIDv7Generator{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("kind", kind.Name)
	return c, nil
}

// Kind returns the collection's entry kind.
func (c *Collection) Kind() EntryKind {
	return c.kind
}

// Revisions returns the collection's revision index.
func (c *Collection) Revisions() *RevisionIndex {
	return c.revisions
}

// Create writes a Create action carrying entry, registers it in the kind's
// indices, and returns the stored record.
//
// The action and its index links are separate writes. A failed index write
// fails the call, though the action itself stays in the log.
func (c *Collection) Create(ctx context.Context, entry ir.Object) (*ir.Action, error) {
	log := c.logger.With("op", c.ops.Generate())

	addr, err := c.sub.PutAction(ctx, ir.Action{
		Type:      ir.ActionCreate,
		Author:    c.session.Author,
		Timestamp: c.session.now(),
		EntryType: c.kind.Name,
		Entry:     entry,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", c.kind.Name, err)
	}

	record, err := c.readBack(ctx, addr, "created")
	if err != nil {
		return nil, err
	}

	if c.kind.HasGlobalIndex() {
		if _, err := c.anchors.RegisterGlobal(ctx, c.kind.GlobalAnchor, c.kind.GlobalLink, addr); err != nil {
			return nil, err
		}
	}
	if c.kind.HasAuthorIndex() {
		if _, err := c.anchors.RegisterAuthor(ctx, c.session.Author, c.kind.AuthorLink, addr); err != nil {
			return nil, err
		}
	}

	log.Info("entry created",
		"address", addr,
		"timestamp", record.Timestamp,
	)
	return record, nil
}

// Update writes an Update action revising previous with entry, links original
// to it, and returns the stored record.
//
// original must be a Create of this kind; previous must be an entry-carrying
// action of this kind. Both are checked before anything is written.
func (c *Collection) Update(ctx context.Context, original, previous ir.Address, entry ir.Object) (*ir.Action, error) {
	log := c.logger.With("op", c.ops.Generate())

	orig, err := c.requireEntry(ctx, original, "original")
	if err != nil {
		return nil, err
	}
	if orig.Type != ir.ActionCreate {
		return nil, newPolicyViolation(original, "original %s is a %s action, not a create", c.kind.Name, orig.Type)
	}
	if _, err := c.requireEntry(ctx, previous, "previous"); err != nil {
		return nil, err
	}

	addr, err := c.sub.PutAction(ctx, ir.Action{
		Type:      ir.ActionUpdate,
		Author:    c.session.Author,
		Timestamp: c.session.now(),
		EntryType: c.kind.Name,
		Entry:     entry,
		Previous:  previous,
	})
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", c.kind.Name, err)
	}

	link, err := c.revisions.Create(ctx, original, addr)
	if err != nil {
		return nil, err
	}

	record, err := c.readBack(ctx, addr, "updated")
	if err != nil {
		return nil, err
	}

	log.Info("entry updated",
		"original", original,
		"previous", previous,
		"address", addr,
		"link", link,
	)
	return record, nil
}

// Delete removes original from the kind's indices and then writes a tombstone
// against it. Returns the address of the Delete action.
//
// The author index cleared is that of the record's author, not the deleting
// session. The two steps are independent writes.
func (c *Collection) Delete(ctx context.Context, original ir.Address) (ir.Address, error) {
	log := c.logger.With("op", c.ops.Generate())

	details, err := recordDetails(ctx, c.sub, original)
	if err != nil {
		return "", err
	}
	if details == nil {
		return "", newNotFound(original, "%s not found", c.kind.Name)
	}
	if err := c.checkKind(details.Record); err != nil {
		return "", err
	}

	if c.kind.HasGlobalIndex() {
		anchor, err := c.anchors.Global(ctx, c.kind.GlobalAnchor)
		if err != nil {
			return "", err
		}
		n, err := c.anchors.Deregister(ctx, anchor, c.kind.GlobalLink, original)
		if err != nil {
			return "", err
		}
		log.Debug("deregistered from global index", "anchor", c.kind.GlobalAnchor, "links", n)
	}
	if c.kind.HasAuthorIndex() {
		n, err := c.anchors.Deregister(ctx, details.Record.Author, c.kind.AuthorLink, original)
		if err != nil {
			return "", err
		}
		log.Debug("deregistered from author index", "author", details.Record.Author, "links", n)
	}

	addr, err := c.tombstones.Record(ctx, original)
	if err != nil {
		return "", err
	}

	log.Info("entry deleted",
		"original", original,
		"address", addr,
	)
	return addr, nil
}

// GetOriginal returns the action at original, or nil if it is not visible.
func (c *Collection) GetOriginal(ctx context.Context, original ir.Address) (*ir.Action, error) {
	details, err := recordDetails(ctx, c.sub, original)
	if err != nil || details == nil {
		return nil, err
	}
	c.logger.Debug("get original", "original", original)
	return &details.Record, nil
}

// GetLatest returns the head of original's revision chain, or nil.
func (c *Collection) GetLatest(ctx context.Context, original ir.Address) (*ir.Action, error) {
	latest, err := ResolveLatest(ctx, c.sub, c.kind.UpdatesLink, original)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		c.logger.Debug("resolved latest", "original", original, "latest", latest.Address)
	}
	return latest, nil
}

// GetHistory returns original followed by its visible revisions.
func (c *Collection) GetHistory(ctx context.Context, original ir.Address) ([]ir.Action, error) {
	history, err := FullHistory(ctx, c.sub, c.kind.UpdatesLink, original)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("assembled history", "original", original, "records", len(history))
	return history, nil
}

// GetDeletes returns every tombstone against original, or nil if original is
// not visible.
func (c *Collection) GetDeletes(ctx context.Context, original ir.Address) ([]ir.Action, error) {
	return c.tombstones.All(ctx, original)
}

// GetOldestDelete returns the earliest tombstone against original, or nil.
func (c *Collection) GetOldestDelete(ctx context.Context, original ir.Address) (*ir.Action, error) {
	return c.tombstones.Oldest(ctx, original)
}

// ListAll returns the raw links from the kind's global anchor.
func (c *Collection) ListAll(ctx context.Context) ([]ir.Link, error) {
	if !c.kind.HasGlobalIndex() {
		return nil, newPolicyViolation("", "%s has no global index", c.kind.Name)
	}
	anchor, err := c.anchors.Global(ctx, c.kind.GlobalAnchor)
	if err != nil {
		return nil, err
	}
	return c.anchors.Enumerate(ctx, anchor, c.kind.GlobalLink)
}

// ListByAuthor returns the raw links from author's index for this kind.
func (c *Collection) ListByAuthor(ctx context.Context, author ir.Address) ([]ir.Link, error) {
	if !c.kind.HasAuthorIndex() {
		return nil, newPolicyViolation("", "%s has no author index", c.kind.Name)
	}
	return c.anchors.Enumerate(ctx, author, c.kind.AuthorLink)
}

// FilterLive keeps the link targets that are visible and not tombstoned.
func (c *Collection) FilterLive(ctx context.Context, links []ir.Link) ([]ir.Action, error) {
	return FilterLive(ctx, c.sub, links)
}

// requireEntry fetches addr and checks it is an entry-carrying action of this kind.
func (c *Collection) requireEntry(ctx context.Context, addr ir.Address, role string) (*ir.Action, error) {
	action, err := c.sub.GetAction(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", role, c.kind.Name, err)
	}
	if action == nil {
		return nil, newNotFound(addr, "%s %s not found", role, c.kind.Name)
	}
	if err := c.checkKind(*action); err != nil {
		return nil, err
	}
	return action, nil
}

func (c *Collection) checkKind(action ir.Action) error {
	if !action.HasEntry() {
		return newPolicyViolation(action.Address, "expected a %s entry, found a %s action", c.kind.Name, action.Type)
	}
	if action.EntryType != c.kind.Name {
		return newPolicyViolation(action.Address, "expected a %s entry, found %s", c.kind.Name, action.EntryType)
	}
	return nil
}

func (c *Collection) readBack(ctx context.Context, addr ir.Address, verb string) (*ir.Action, error) {
	record, err := c.sub.GetAction(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("read back %s: %w", addr, err)
	}
	if record == nil {
		return nil, newNotFound(addr, "could not find the newly %s %s", verb, c.kind.Name)
	}
	return record, nil
}

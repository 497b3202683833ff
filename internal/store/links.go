package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

const linkColumns = `l.address, l.base, l.target, l.link_kind, l.tag, l.author, l.timestamp`

// DeriveAnchorAddress returns the deterministic address of a named anchor and
// records the anchor as an entry-only node so GetDetails can resolve it.
func (s *Store) DeriveAnchorAddress(ctx context.Context, name string) (ir.Address, error) {
	addr, err := ir.AnchorAddress(name)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO anchors (address, name) VALUES (?, ?)
		ON CONFLICT(address) DO NOTHING
	`, string(addr), name)
	if err != nil {
		return "", fmt.Errorf("derive anchor %q: %w", name, err)
	}
	return addr, nil
}

// CreateLink appends a link and returns its address.
// Creating an identical link twice is a no-op that returns the same address.
func (s *Store) CreateLink(ctx context.Context, link ir.Link) (ir.Address, error) {
	sealed, err := link.Sealed()
	if err != nil {
		return "", fmt.Errorf("create link: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO links (address, base, target, link_kind, tag, author, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO NOTHING
	`,
		string(sealed.Address),
		string(sealed.Base),
		string(sealed.Target),
		string(sealed.Kind),
		sealed.Tag,
		string(sealed.Author),
		int64(sealed.Timestamp),
	)
	if err != nil {
		return "", fmt.Errorf("create link: %w", err)
	}
	return sealed.Address, nil
}

// GetLinks returns the live links from base with the given kind, in natural
// (insertion) order. Deleted links are omitted. Returns an empty slice, not
// nil, when there are none.
func (s *Store) GetLinks(ctx context.Context, base ir.Address, kind ir.LinkKind) ([]ir.Link, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+linkColumns+`
		FROM links l
		LEFT JOIN link_deletes d ON d.link_address = l.address
		WHERE l.base = ? AND l.link_kind = ? AND d.link_address IS NULL
		ORDER BY l.seq ASC
	`, string(base), string(kind))
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	links := []ir.Link{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return links, nil
}

// GetLink returns the link at addr, deleted or not, or nil if unknown.
func (s *Store) GetLink(ctx context.Context, addr ir.Address) (*ir.Link, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links l WHERE l.address = ?`, string(addr))
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get link %s: %w", addr, err)
	}
	return &link, nil
}

// DeleteLink hides a link from GetLinks. Registered guards run first and may
// reject the delete; nothing is written in that case. Deleting an unknown link
// returns ErrNotFound. Deleting an already deleted link is a no-op.
func (s *Store) DeleteLink(ctx context.Context, del ir.LinkDelete) error {
	link, err := s.GetLink(ctx, del.Link)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	if link == nil {
		return fmt.Errorf("delete link %s: %w", del.Link, ErrNotFound)
	}

	for _, guard := range s.guards {
		if err := guard(ctx, *link); err != nil {
			return err
		}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO link_deletes (link_address, author, timestamp)
		VALUES (?, ?, ?)
		ON CONFLICT(link_address) DO NOTHING
	`, string(del.Link), string(del.Author), int64(del.Timestamp))
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

func scanLink(row scanner) (ir.Link, error) {
	var (
		address, base, target, kind, author string
		tag                                 []byte
		timestamp                           int64
	)
	if err := row.Scan(&address, &base, &target, &kind, &tag, &author, &timestamp); err != nil {
		return ir.Link{}, err
	}
	if len(tag) == 0 {
		tag = nil
	}
	return ir.Link{
		Address:   ir.Address(address),
		Base:      ir.Address(base),
		Target:    ir.Address(target),
		Kind:      ir.LinkKind(kind),
		Tag:       tag,
		Author:    ir.Address(author),
		Timestamp: ir.Timestamp(timestamp),
	}, nil
}

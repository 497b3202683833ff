package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/revlog/internal/ir"
)

const actionColumns = `address, action_type, author, timestamp, entry_type, entry, previous_address, deletes_address`

// PutAction appends an action to the log and returns its content address.
// The address is recomputed from content; any Address already set on the
// action is ignored. Writing identical content twice is a no-op that returns
// the same address.
func (s *Store) PutAction(ctx context.Context, action ir.Action) (ir.Address, error) {
	sealed, err := action.Sealed()
	if err != nil {
		return "", fmt.Errorf("put action: %w", err)
	}

	entryJSON, err := marshalEntry(sealed.Entry)
	if err != nil {
		return "", fmt.Errorf("put action: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO actions (`+actionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO NOTHING
	`,
		string(sealed.Address),
		string(sealed.Type),
		string(sealed.Author),
		int64(sealed.Timestamp),
		sealed.EntryType,
		entryJSON,
		nullAddress(sealed.Previous),
		nullAddress(sealed.Deletes),
	)
	if err != nil {
		return "", fmt.Errorf("put action: %w", err)
	}
	return sealed.Address, nil
}

// GetAction returns the action at addr, or nil if this store has no such action.
func (s *Store) GetAction(ctx context.Context, addr ir.Address) (*ir.Action, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+actionColumns+` FROM actions WHERE address = ?`, string(addr))
	action, err := scanAction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get action %s: %w", addr, err)
	}
	return &action, nil
}

// GetDetails returns the detail view of addr:
//   - nil if the address is unknown
//   - *ir.EntryDetails if it names an anchor
//   - *ir.RecordDetails with every Delete recorded against it otherwise
func (s *Store) GetDetails(ctx context.Context, addr ir.Address) (ir.Details, error) {
	action, err := s.GetAction(ctx, addr)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return s.anchorDetails(ctx, addr)
	}

	deletes, err := s.deletesOf(ctx, addr)
	if err != nil {
		return nil, err
	}
	return &ir.RecordDetails{Record: *action, Deletes: deletes}, nil
}

func (s *Store) anchorDetails(ctx context.Context, addr ir.Address) (ir.Details, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM anchors WHERE address = ?`, string(addr)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get details %s: %w", addr, err)
	}
	return &ir.EntryDetails{Address: addr, Name: name}, nil
}

// deletesOf returns the Delete actions targeting addr in natural order.
func (s *Store) deletesOf(ctx context.Context, addr ir.Address) ([]ir.Action, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+actionColumns+`
		FROM actions
		WHERE deletes_address = ? AND action_type = 'delete'
		ORDER BY seq ASC
	`, string(addr))
	if err != nil {
		return nil, fmt.Errorf("query deletes: %w", err)
	}
	defer rows.Close()

	deletes := []ir.Action{}
	for rows.Next() {
		action, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delete: %w", err)
		}
		deletes = append(deletes, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deletes: %w", err)
	}
	return deletes, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAction(row scanner) (ir.Action, error) {
	var (
		address, actionType, author string
		timestamp                   int64
		entryType                   string
		entryJSON                   sql.NullString
		previous, deletes           sql.NullString
	)
	if err := row.Scan(&address, &actionType, &author, &timestamp, &entryType, &entryJSON, &previous, &deletes); err != nil {
		return ir.Action{}, err
	}

	entry, err := unmarshalEntry(entryJSON)
	if err != nil {
		return ir.Action{}, err
	}

	return ir.Action{
		Address:   ir.Address(address),
		Type:      ir.ActionType(actionType),
		Author:    ir.Address(author),
		Timestamp: ir.Timestamp(timestamp),
		EntryType: entryType,
		Entry:     entry,
		Previous:  ir.Address(previous.String),
		Deletes:   ir.Address(deletes.String),
	}, nil
}

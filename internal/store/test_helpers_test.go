package store

import (
	"context"
	"crypto/ed25519"
	"path/filepath"
	"testing"

	"github.com/roach88/revlog/internal/ir"
)

// createTestStore creates a new store in a temporary directory for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testAgent derives a deterministic agent address from a one-byte seed.
func testAgent(t *testing.T, seed byte) ir.Address {
	t.Helper()
	key := ed25519.NewKeyFromSeed(seedOf(seed))
	addr, err := ir.AgentAddress(key.Public().(ed25519.PublicKey))
	if err != nil {
		t.Fatalf("AgentAddress() failed: %v", err)
	}
	return addr
}

func seedOf(b byte) []byte {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

// putCreate writes a create action and returns its address.
func putCreate(t *testing.T, s *Store, author ir.Address, ts ir.Timestamp, name string) ir.Address {
	t.Helper()
	addr, err := s.PutAction(context.Background(), ir.Action{
		Type:      ir.ActionCreate,
		Author:    author,
		Timestamp: ts,
		EntryType: "coin",
		Entry:     ir.Object{"name": ir.String(name)},
	})
	if err != nil {
		t.Fatalf("PutAction() failed: %v", err)
	}
	return addr
}

// putDelete writes a delete action against target and returns its address.
func putDelete(t *testing.T, s *Store, author ir.Address, ts ir.Timestamp, target ir.Address) ir.Address {
	t.Helper()
	addr, err := s.PutAction(context.Background(), ir.Action{
		Type:      ir.ActionDelete,
		Author:    author,
		Timestamp: ts,
		Deletes:   target,
	})
	if err != nil {
		t.Fatalf("PutAction(delete) failed: %v", err)
	}
	return addr
}

// createTestLink writes a link and returns its address.
func createTestLink(t *testing.T, s *Store, base, target, author ir.Address, kind ir.LinkKind, ts ir.Timestamp) ir.Address {
	t.Helper()
	addr, err := s.CreateLink(context.Background(), ir.Link{
		Base:      base,
		Target:    target,
		Kind:      kind,
		Author:    author,
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("CreateLink() failed: %v", err)
	}
	return addr
}

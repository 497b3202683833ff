package testutil

import (
	"crypto/ed25519"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/revlog/internal/ir"
	"github.com/roach88/revlog/internal/store"
)

// OpenStore opens a fresh SQLite store in a temporary directory and closes it
// when the test ends.
func OpenStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "revlog.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// AgentKey returns a deterministic Ed25519 key derived from a one-byte seed.
func AgentKey(seed byte) ed25519.PrivateKey {
	s := make([]byte, ed25519.SeedSize)
	for i := range s {
		s[i] = seed
	}
	return ed25519.NewKeyFromSeed(s)
}

// Agent returns the author address of AgentKey(seed).
func Agent(t *testing.T, seed byte) ir.Address {
	t.Helper()
	addr, err := ir.AgentAddress(AgentKey(seed).Public().(ed25519.PublicKey))
	require.NoError(t, err)
	return addr
}

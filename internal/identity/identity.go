// Package identity manages the agent keypair that authors every write.
package identity

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/multiformats/go-multibase"

	"github.com/roach88/revlog/internal/ir"
)

// ed25519Multicodec is the multicodec prefix for Ed25519 public keys (0xED01).
var ed25519Multicodec = []byte{0xed, 0x01}

// Identity holds an Ed25519 keypair and its author address.
type Identity struct {
	Address    ir.Address `json:"address"`
	PublicKey  string     `json:"public_key"`  // base64-encoded 32 bytes
	PrivateKey string     `json:"private_key"` // base64-encoded 32-byte seed

	key ed25519.PrivateKey
}

// New builds an identity from a private key.
func New(key ed25519.PrivateKey) (*Identity, error) {
	pub := key.Public().(ed25519.PublicKey)
	addr, err := ir.AgentAddress(pub)
	if err != nil {
		return nil, err
	}
	return &Identity{
		Address:    addr,
		PublicKey:  base64.StdEncoding.EncodeToString(pub),
		PrivateKey: base64.StdEncoding.EncodeToString(key.Seed()),
		key:        key,
	}, nil
}

// Generate creates a fresh random identity.
func Generate() (*Identity, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return New(priv)
}

// Load reads an identity file and checks that its fields agree.
func Load(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}
	var stored Identity
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parse identity: %w", err)
	}

	seed, err := base64.StdEncoding.DecodeString(stored.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parse identity: private key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("parse identity: private key: want %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	id, err := New(ed25519.NewKeyFromSeed(seed))
	if err != nil {
		return nil, err
	}
	if stored.PublicKey != "" && stored.PublicKey != id.PublicKey {
		return nil, fmt.Errorf("identity %s: public key does not match private key", path)
	}
	if !stored.Address.IsZero() && stored.Address != id.Address {
		return nil, fmt.Errorf("identity %s: address does not match private key", path)
	}
	return id, nil
}

// LoadOrGenerate reads the identity at path, generating and saving a new one
// if the file does not exist. The boolean reports whether one was generated.
func LoadOrGenerate(path string) (*Identity, bool, error) {
	id, err := Load(path)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, false, err
	}

	id, err = Generate()
	if err != nil {
		return nil, false, err
	}
	if err := id.Save(path); err != nil {
		return nil, false, err
	}
	return id, true, nil
}

// Save writes the identity to path with owner-only permissions.
func (id *Identity) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write identity: %w", err)
	}
	return nil
}

// Key returns the private key.
func (id *Identity) Key() ed25519.PrivateKey {
	return id.key
}

// DID returns the did:key form of the public key.
func (id *Identity) DID() (string, error) {
	pub := id.key.Public().(ed25519.PublicKey)
	encoded, err := multibase.Encode(multibase.Base58BTC, bytes.Join([][]byte{ed25519Multicodec, pub}, nil))
	if err != nil {
		return "", fmt.Errorf("encode did: %w", err)
	}
	return "did:key:" + encoded, nil
}

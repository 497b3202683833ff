package ir

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	gocid "github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainAction = "revlog/action/v1"
	DomainLink   = "revlog/link/v1"
	DomainAnchor = "revlog/anchor/v1"
)

// Codecs distinguish what an address points at.
const (
	CodecAction = gocid.DagJSON   // actions: canonical JSON records
	CodecAnchor = gocid.Raw       // named anchors: entry-only nodes
	CodecAgent  = gocid.Libp2pKey // author identities: Ed25519 public keys

	// CodecLink is in the multicodec private-use range. Links are canonical
	// JSON like actions but must never be read as one.
	CodecLink uint64 = 0x300001
)

var addressEncoder = multibase.MustNewEncoder(multibase.Base32)

// Address is the text form of a CIDv1 (base32 lower multibase).
type Address string

// String implements fmt.Stringer.
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return a == ""
}

// Short returns an abbreviated form for logs and text output.
func (a Address) Short() string {
	if len(a) <= 14 {
		return string(a)
	}
	return string(a[:6]) + "…" + string(a[len(a)-6:])
}

// Cid parses the address.
func (a Address) Cid() (gocid.Cid, error) {
	return ParseCid(string(a))
}

// Codec returns the multicodec of the address, or an error if unparseable.
func (a Address) Codec() (uint64, error) {
	c, err := a.Cid()
	if err != nil {
		return 0, err
	}
	return c.Type(), nil
}

// IsAction reports whether the address can be interpreted as an action address.
func (a Address) IsAction() bool {
	codec, err := a.Codec()
	return err == nil && codec == CodecAction
}

// IsLink reports whether the address is a create-link address.
func (a Address) IsLink() bool {
	codec, err := a.Codec()
	return err == nil && codec == CodecLink
}

// ParseCid decodes a multibase-encoded CIDv1.
func ParseCid(s string) (gocid.Cid, error) {
	if s == "" {
		return gocid.Undef, fmt.Errorf("empty address")
	}
	_, data, err := multibase.Decode(s)
	if err != nil {
		return gocid.Undef, fmt.Errorf("decode address %q: %w", s, err)
	}
	c, err := gocid.Cast(data)
	if err != nil {
		return gocid.Undef, fmt.Errorf("parse address %q: %w", s, err)
	}
	if c.Version() != 1 {
		return gocid.Undef, fmt.Errorf("address %q: unsupported CID version %d", s, c.Version())
	}
	return c, nil
}

// ParseAddress validates s and returns it in normalized form.
func ParseAddress(s string) (Address, error) {
	c, err := ParseCid(s)
	if err != nil {
		return "", err
	}
	return encodeCid(c), nil
}

func encodeCid(c gocid.Cid) Address {
	return Address(c.Encode(addressEncoder))
}

// sumAddress hashes data with SHA2-256 and wraps it in a CIDv1 of the given codec.
func sumAddress(codec uint64, data []byte) (Address, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", fmt.Errorf("multihash: %w", err)
	}
	return encodeCid(gocid.NewCidV1(codec, mh)), nil
}

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) []byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return h.Sum(nil)
}

// AnchorAddress derives the deterministic address of a named anchor.
// The same name always yields the same address on every node.
func AnchorAddress(name string) (Address, error) {
	if name == "" {
		return "", fmt.Errorf("anchor name is empty")
	}
	mh, err := multihash.Encode(hashWithDomain(DomainAnchor, []byte(name)), multihash.SHA2_256)
	if err != nil {
		return "", fmt.Errorf("anchor %q: %w", name, err)
	}
	return encodeCid(gocid.NewCidV1(CodecAnchor, mh)), nil
}

// AgentAddress derives an author address from an Ed25519 public key.
// The key is embedded as an identity multihash, so the address is reversible.
func AgentAddress(pub ed25519.PublicKey) (Address, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", fmt.Errorf("agent key: want %d bytes, got %d", ed25519.PublicKeySize, len(pub))
	}
	mh, err := multihash.Sum(pub, multihash.IDENTITY, -1)
	if err != nil {
		return "", fmt.Errorf("agent key: %w", err)
	}
	return encodeCid(gocid.NewCidV1(CodecAgent, mh)), nil
}

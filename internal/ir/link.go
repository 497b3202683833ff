package ir

import "fmt"

// LinkKind tags a link with the index it belongs to, e.g. "CoinUpdates".
type LinkKind string

// Link is a directed, timestamped edge from a base address to a target.
// A link is itself content-addressed; Address is its "create link" address.
type Link struct {
	Address   Address   `json:"address"`
	Base      Address   `json:"base"`
	Target    Address   `json:"target"`
	Kind      LinkKind  `json:"kind"`
	Tag       []byte    `json:"tag,omitempty"`
	Author    Address   `json:"author"`
	Timestamp Timestamp `json:"timestamp"`
}

// Content returns the hashed content of the link.
func (l Link) Content() Object {
	return Object{
		"v":         String(DomainLink),
		"base":      String(l.Base),
		"target":    String(l.Target),
		"kind":      String(l.Kind),
		"tag":       String(fmt.Sprintf("%x", l.Tag)),
		"author":    String(l.Author),
		"timestamp": Int(l.Timestamp),
	}
}

// Sealed validates the link and returns a copy with Address set.
func (l Link) Sealed() (Link, error) {
	if l.Base.IsZero() || l.Target.IsZero() {
		return Link{}, fmt.Errorf("link: base and target are required")
	}
	if l.Kind == "" {
		return Link{}, fmt.Errorf("link: kind is required")
	}
	if l.Author.IsZero() {
		return Link{}, fmt.Errorf("link: author is required")
	}
	canonical, err := MarshalCanonical(l.Content())
	if err != nil {
		return Link{}, fmt.Errorf("link address: %w", err)
	}
	addr, err := sumAddress(CodecLink, canonical)
	if err != nil {
		return Link{}, err
	}
	l.Address = addr
	return l, nil
}

// LinkDelete removes a link from reads. The link record itself is kept.
type LinkDelete struct {
	Link      Address   `json:"link"`
	Author    Address   `json:"author"`
	Timestamp Timestamp `json:"timestamp"`
}

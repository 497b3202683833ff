package ir

// Details is the per-address detail view returned by the store.
//
// It is a closed variant with exactly two cases, EntryDetails and
// RecordDetails. The unexported method seals it: no other package can add a
// third case.
type Details interface {
	isDetails()
}

// EntryDetails is returned for addresses that name an entry-only node, such
// as an anchor. Entity operations treat it as a protocol-integrity error.
type EntryDetails struct {
	Address Address `json:"address"`
	Name    string  `json:"name"`
}

func (*EntryDetails) isDetails() {}

// RecordDetails is returned for action addresses: the record itself plus every
// Delete action recorded against it, in the store's natural order.
type RecordDetails struct {
	Record  Action   `json:"record"`
	Deletes []Action `json:"deletes"`
}

func (*RecordDetails) isDetails() {}

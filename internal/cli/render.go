package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/revlog/internal/ir"
)

// actionView renders one action.
type actionView struct {
	ir.Action
}

// Text implements textRenderer.
func (v actionView) Text() string {
	var b strings.Builder
	writeAction(&b, v.Action)
	return b.String()
}

func writeAction(b *strings.Builder, a ir.Action) {
	fmt.Fprintf(b, "%s\n", a.Address)
	fmt.Fprintf(b, "  type:       %s\n", a.Type)
	if a.EntryType != "" {
		fmt.Fprintf(b, "  entry_type: %s\n", a.EntryType)
	}
	fmt.Fprintf(b, "  author:     %s\n", a.Author)
	fmt.Fprintf(b, "  timestamp:  %s\n", a.Timestamp.Time().Format(time.RFC3339Nano))
	if !a.Previous.IsZero() {
		fmt.Fprintf(b, "  previous:   %s\n", a.Previous)
	}
	if !a.Deletes.IsZero() {
		fmt.Fprintf(b, "  deletes:    %s\n", a.Deletes)
	}
	if a.Entry != nil {
		entry, err := ir.MarshalCanonical(a.Entry)
		if err != nil {
			entry = []byte(err.Error())
		}
		fmt.Fprintf(b, "  entry:      %s\n", entry)
	}
}

// actionListView renders a sequence of actions in order.
type actionListView []ir.Action

// Text implements textRenderer.
func (v actionListView) Text() string {
	if len(v) == 0 {
		return "(none)\n"
	}
	var b strings.Builder
	for i, a := range v {
		if i > 0 {
			b.WriteString("\n")
		}
		writeAction(&b, a)
	}
	return b.String()
}

// linkListView renders raw index links, one per line.
type linkListView []ir.Link

// Text implements textRenderer.
func (v linkListView) Text() string {
	if len(v) == 0 {
		return "(none)\n"
	}
	var b strings.Builder
	for _, l := range v {
		fmt.Fprintf(&b, "%s  kind=%s author=%s timestamp=%s\n",
			l.Target, l.Kind, l.Author.Short(), l.Timestamp.Time().Format(time.RFC3339Nano))
	}
	return b.String()
}

// deleteView reports a tombstone write.
type deleteView struct {
	Original ir.Address `json:"original"`
	Address  ir.Address `json:"address"`
}

// Text implements textRenderer.
func (v deleteView) Text() string {
	return fmt.Sprintf("Deleted %s\n  tombstone: %s\n", v.Original, v.Address)
}

// whoamiView reports the agent identity.
type whoamiView struct {
	Address ir.Address `json:"address"`
	DID     string     `json:"did"`
	KeyPath string     `json:"key_path"`
}

// Text implements textRenderer.
func (v whoamiView) Text() string {
	return fmt.Sprintf("%s\n  did:      %s\n  key_path: %s\n", v.Address, v.DID, v.KeyPath)
}

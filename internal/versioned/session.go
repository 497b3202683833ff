package versioned

import (
	"time"

	"github.com/roach88/revlog/internal/ir"
)

// Clock supplies author wall-clock timestamps for actions and links.
type Clock interface {
	Now() ir.Timestamp
}

// SystemClock reads the host clock.
type SystemClock struct{}

// Now returns the current time in microseconds.
func (SystemClock) Now() ir.Timestamp {
	return ir.TimestampOf(time.Now())
}

// Session is the identity and clock that stamp every write made by this node.
type Session struct {
	Author ir.Address
	Clock  Clock
}

func (s Session) now() ir.Timestamp {
	if s.Clock == nil {
		return SystemClock{}.Now()
	}
	return s.Clock.Now()
}

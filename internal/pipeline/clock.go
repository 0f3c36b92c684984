package pipeline

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps GeneratedAt on reports. Tests freeze it via SetClock.
var clock atomic.Pointer[clockwork.Clock]

func init() { SetClock(nil) }

// SetClock swaps the report time source. Pass nil to reset to real time.
// It is safe to call while reports are being built.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock.Store(&c)
}

func now() time.Time { return (*clock.Load()).Now() }

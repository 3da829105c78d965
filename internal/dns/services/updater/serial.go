package updater

import (
	"time"

	"github.com/pulsedns/pulse-dns/internal/dns/common/clock"
)

// serialSource yields strictly increasing SOA serials derived from the
// current unix time. Two rebuilds inside the same second would otherwise
// produce the same serial, which secondaries would ignore; instead of
// failing, the source waits out the remainder of the second.
type serialSource struct {
	clock clock.Clock
	sleep func(time.Duration)
	last  uint32
}

func newSerialSource(c clock.Clock) *serialSource {
	return &serialSource{
		clock: c,
		sleep: time.Sleep,
	}
}

// Next returns the next serial, blocking until the clock produces a value
// different from the previous one.
func (s *serialSource) Next() uint32 {
	for {
		serial := uint32(s.clock.Now().Unix())
		if serial != s.last {
			s.last = serial
			return serial
		}
		s.sleep(100 * time.Millisecond)
	}
}

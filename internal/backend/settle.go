package backend

import "time"

// settle holds back a reload until the capture file has stopped changing, so
// a writer still appending flows is not read halfway through.
type settle struct {
	quiet time.Duration

	pending fileStamp
	since   time.Time
	armed   bool
}

func newSettle(quiet time.Duration) *settle {
	return &settle{quiet: quiet}
}

// ready reports whether stamp has been observed unchanged for the quiet
// period. A different stamp restarts the wait.
func (s *settle) ready(stamp fileStamp, now time.Time) bool {
	if s.quiet <= 0 {
		return true
	}
	if !s.armed || !stamp.same(s.pending) {
		s.pending = stamp
		s.since = now
		s.armed = true
		return false
	}
	return now.Sub(s.since) >= s.quiet
}

// reset forgets the pending change once it has been loaded.
func (s *settle) reset() {
	s.armed = false
}

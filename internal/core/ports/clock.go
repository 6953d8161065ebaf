package ports

import "time"

// Clock abstracts wall time so lock windows and day rollovers can be simulated.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

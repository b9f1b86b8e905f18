package clock

import "time"

// Clock abstracts time so services stay deterministic in tests.
// All timestamps in the system are UTC.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

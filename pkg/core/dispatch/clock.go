package dispatch

import "time"

// Clock abstracts time so the poll loop is testable without real delays
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// realClock is the production Clock backed by the time package
type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock returns the wall-clock implementation
func SystemClock() Clock { return realClock{} }

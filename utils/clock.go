package utils

import "time"

// Clock supplies the current instant. Injected so the reservation
// cutoff and publish-time checks can be tested against a fixed time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the wall clock (UTC instants).
func SystemClock() Clock { return realClock{} }

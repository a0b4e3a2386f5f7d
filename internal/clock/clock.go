// Package clock provides indirection for accessing current wall-clock time.
package clock

import "time"

// Now returns current wall clock time. It is a variable so tests can install
// a fixed clock.
var Now = time.Now //nolint:gochecknoglobals

// Since returns time elapsed since the given timestamp.
func Since(t time.Time) time.Duration {
	return Now().Sub(t)
}

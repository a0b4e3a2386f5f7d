// Package units converts byte counts to human-readable strings.
package units

import (
	"fmt"
	"strings"
)

var bytePrefixes = []string{"", "K", "M", "G", "T"} //nolint:gochecknoglobals

// BytesString formats the given byte count with the appropriate base-10
// suffix (B, KB, MB, ...).
func BytesString(b int64) string {
	const thousand = 1000.0

	f := float64(b)

	for _, p := range bytePrefixes[:len(bytePrefixes)-1] {
		if f < 0.9*thousand {
			return trimZeros(f) + " " + p + "B"
		}

		f /= thousand
	}

	return trimZeros(f) + " " + bytePrefixes[len(bytePrefixes)-1] + "B"
}

func trimZeros(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}

package settings

import (
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/mwbackup/mwbackup/internal/atomicfile"
)

// DefaultReadOnlyReason is the message shown to wiki users while the
// backup holds the installation read-only.
const DefaultReadOnlyReason = "Backup in progress"

// readOnlyPrefix matches a $wgReadOnly assignment regardless of case and
// of how the value is quoted. Lines are trimmed before matching.
const readOnlyPrefix = "$wgreadonly"

// closingMarker is the PHP closing tag. When present, the sentinel is
// inserted immediately before its last occurrence so it stays inside the
// PHP block.
const closingMarker = "?>"

// SetReadOnly inserts or removes the $wgReadOnly sentinel line in
// LocalSettings.php at the provided path. It is idempotent: requesting a
// state the file is already in leaves the file byte-identical and
// returns changed=false. The file is rewritten atomically, preserving
// its permissions.
func SetReadOnly(path string, on bool, reason string) (changed bool, err error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, errors.Wrap(ErrNotFound, path)
	}

	if err != nil {
		return false, errors.Wrapf(err, "unable to read %v", path)
	}

	lines := strings.Split(string(b), "\n")

	if on {
		lines, changed = insertSentinel(lines, reason)
	} else {
		lines, changed = removeSentinel(lines)
	}

	if !changed {
		return false, nil
	}

	if err := atomicfile.WriteBytes(path, []byte(strings.Join(lines, "\n"))); err != nil {
		return false, errors.Wrap(err, "unable to rewrite LocalSettings.php")
	}

	return true, nil
}

// IsReadOnly reports whether the sentinel line is present in
// LocalSettings.php at the provided path.
func IsReadOnly(path string) (bool, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, errors.Wrap(ErrNotFound, path)
	}

	if err != nil {
		return false, errors.Wrapf(err, "unable to read %v", path)
	}

	for _, line := range strings.Split(string(b), "\n") {
		if isSentinelLine(line) {
			return true, nil
		}
	}

	return false, nil
}

func isSentinelLine(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	if !strings.HasPrefix(s, readOnlyPrefix) {
		return false
	}

	s = strings.TrimSpace(s[len(readOnlyPrefix):])

	return strings.HasPrefix(s, "=")
}

func sentinelLine(reason string) string {
	if reason == "" {
		reason = DefaultReadOnlyReason
	}

	q := strings.ReplaceAll(reason, `\`, `\\`)
	q = strings.ReplaceAll(q, `'`, `\'`)

	return "$wgReadOnly = '" + q + "';"
}

func insertSentinel(lines []string, reason string) ([]string, bool) {
	for _, line := range lines {
		if isSentinelLine(line) {
			return lines, false
		}
	}

	sentinel := sentinelLine(reason)

	if at := lastClosingMarker(lines); at >= 0 {
		out := make([]string, 0, len(lines)+1)
		out = append(out, lines[:at]...)
		out = append(out, sentinel)
		out = append(out, lines[at:]...)

		return out, true
	}

	// no closing tag, append at end of file keeping the trailing
	// newline if the file had one
	if n := len(lines); n > 0 && lines[n-1] == "" {
		return append(lines[:n-1], sentinel, ""), true
	}

	return append(lines, sentinel), true
}

func removeSentinel(lines []string) ([]string, bool) {
	out := lines[:0:0]
	removed := false

	for _, line := range lines {
		if isSentinelLine(line) {
			removed = true
			continue
		}

		out = append(out, line)
	}

	return out, removed
}

func lastClosingMarker(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == closingMarker {
			return i
		}
	}

	return -1
}

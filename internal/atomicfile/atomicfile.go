// Package atomicfile atomically replaces file contents.
package atomicfile

import (
	"bytes"
	"io"

	"github.com/natefinch/atomic"
)

// Write atomically replaces the file at path with the contents of r.
// The data is staged in a same-directory temporary file and renamed over the
// destination, so concurrent readers observe either the old or the new
// contents, never a mix. Permissions of an existing destination are preserved.
func Write(path string, r io.Reader) error {
	//nolint:wrapcheck
	return atomic.WriteFile(path, r)
}

// WriteBytes atomically replaces the file at path with data.
func WriteBytes(path string, data []byte) error {
	return Write(path, bytes.NewReader(data))
}

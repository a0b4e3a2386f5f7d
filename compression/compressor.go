// Package compression manages compression algorithm implementations.
package compression

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Name is the name of the compressor to use.
type Name string

// Compressor implements streaming compression of backup artifacts.
type Compressor interface {
	// Ext returns the filename extension appended to artifacts written by
	// this compressor, including the leading dot.
	Ext() string

	// NewWriter returns a writer that compresses data written to it into w.
	// Closing the returned writer flushes the stream but does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// ByName maps registered compressors by name.
var ByName = map[Name]Compressor{}

// RegisterCompressor registers the provided compressor implementation.
func RegisterCompressor(name Name, c Compressor) {
	if ByName[name] != nil {
		panic(fmt.Sprintf("compressor with name %q already registered", name))
	}

	ByName[name] = c
}

// ForName returns the compressor registered under the provided name.
func ForName(name Name) (Compressor, error) {
	c := ByName[name]
	if c == nil {
		return nil, errors.Errorf("unsupported compression %q, supported: %v", name, strings.Join(Names(), ", "))
	}

	return c, nil
}

// Names returns the sorted names of all registered compressors.
func Names() []string {
	var names []string

	for name := range ByName {
		names = append(names, string(name))
	}

	sort.Strings(names)

	return names
}

// DefaultName returns the compressor used when none is specified on the
// command line. Parallel gzip wins whenever more than one CPU is available.
func DefaultName() Name {
	if runtime.NumCPU() > 1 {
		return "pgzip"
	}

	return "gzip"
}

package compression

import (
	"bytes"
	"compress/gzip"
	"crypto/rand"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

func decompress(t *testing.T, ext string, b []byte) []byte {
	t.Helper()

	var r io.Reader

	switch ext {
	case ".gz":
		gz, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			t.Fatalf("unable to open gzip stream: %v", err)
		}

		defer gz.Close()

		r = gz

	case ".zst":
		zr, err := zstd.NewReader(bytes.NewReader(b))
		if err != nil {
			t.Fatalf("unable to open zstd stream: %v", err)
		}

		defer zr.Close()

		r = zr

	case ".s2":
		r = s2.NewReader(bytes.NewReader(b))

	case ".lz4":
		r = lz4.NewReader(bytes.NewReader(b))

	default:
		t.Fatalf("no decompressor for extension %q", ext)
	}

	var out bytes.Buffer
	if _, err := io.Copy(&out, r); err != nil {
		t.Fatalf("decompression error: %v", err)
	}

	return out.Bytes()
}

func compressViaWriter(t *testing.T, comp Compressor, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer

	w, err := comp.NewWriter(&buf)
	if err != nil {
		t.Fatalf("unable to create writer: %v", err)
	}

	if _, err := w.Write(data); err != nil {
		t.Fatalf("compression error: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("compression close error: %v", err)
	}

	return buf.Bytes()
}

func TestCompressor(t *testing.T) {
	for name, comp := range ByName {
		name, comp := name, comp

		t.Run("compressible-data-"+string(name), func(t *testing.T) {
			// make sure all-zero data is compressed
			data := make([]byte, 10000)

			cData := compressViaWriter(t, comp, data)
			if len(cData) >= len(data) {
				t.Errorf("compression not effective for all-zero data")
			}

			if !bytes.Equal(data, decompress(t, comp.Ext(), cData)) {
				t.Errorf("invalid decompressed data")
			}

			t.Logf("compressed %v => %v", len(data), len(cData))
		})

		t.Run("non-compressible-data-"+string(name), func(t *testing.T) {
			// make sure all-random data round-trips
			data := make([]byte, 10000)
			rand.Read(data)

			cData := compressViaWriter(t, comp, data)

			if !bytes.Equal(data, decompress(t, comp.Ext(), cData)) {
				t.Errorf("invalid decompressed data")
			}

			t.Logf("compressed %v => %v", len(data), len(cData))
		})
	}
}

func TestForName(t *testing.T) {
	c, err := ForName("pgzip")
	if err != nil {
		t.Fatalf("ForName: %v", err)
	}

	if got, want := c.Ext(), ".gz"; got != want {
		t.Errorf("invalid extension %q, wanted %q", got, want)
	}

	if _, err := ForName("no-such-compression"); err == nil {
		t.Fatalf("expected error for unknown compression")
	} else if !strings.Contains(err.Error(), "supported:") {
		t.Errorf("error does not list supported names: %v", err)
	}
}

func TestDefaultNameRegistered(t *testing.T) {
	if _, err := ForName(DefaultName()); err != nil {
		t.Fatalf("default compressor not registered: %v", err)
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("no compressors registered")
	}

	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
}

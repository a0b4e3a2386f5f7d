package compression

import (
	"compress/gzip"
	"io"

	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("gzip", newGzipCompressor(gzip.DefaultCompression))
	RegisterCompressor("gzip-best-speed", newGzipCompressor(gzip.BestSpeed))
	RegisterCompressor("gzip-best-compression", newGzipCompressor(gzip.BestCompression))
}

func newGzipCompressor(level int) Compressor {
	return &gzipCompressor{level}
}

type gzipCompressor struct {
	level int
}

func (c *gzipCompressor) Ext() string {
	return ".gz"
}

func (c *gzipCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw, err := gzip.NewWriterLevel(w, c.level)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create gzip writer")
	}

	return zw, nil
}

package compression

import (
	"io"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("pgzip", newpgzipCompressor(pgzip.DefaultCompression))
	RegisterCompressor("pgzip-best-speed", newpgzipCompressor(pgzip.BestSpeed))
	RegisterCompressor("pgzip-best-compression", newpgzipCompressor(pgzip.BestCompression))
}

func newpgzipCompressor(level int) Compressor {
	return &pgzipCompressor{level}
}

type pgzipCompressor struct {
	level int
}

func (c *pgzipCompressor) Ext() string {
	return ".gz"
}

func (c *pgzipCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw, err := pgzip.NewWriterLevel(w, c.level)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pgzip writer")
	}

	return zw, nil
}

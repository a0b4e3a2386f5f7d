package compression

import (
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

func init() {
	RegisterCompressor("zstd", newZstdCompressor(zstd.SpeedDefault))
	RegisterCompressor("zstd-fastest", newZstdCompressor(zstd.SpeedFastest))
	RegisterCompressor("zstd-better-compression", newZstdCompressor(zstd.SpeedBetterCompression))
	RegisterCompressor("zstd-best-compression", newZstdCompressor(zstd.SpeedBestCompression))
}

func newZstdCompressor(level zstd.EncoderLevel) Compressor {
	return &zstdCompressor{level}
}

type zstdCompressor struct {
	level zstd.EncoderLevel
}

func (c *zstdCompressor) Ext() string {
	return ".zst"
}

func (c *zstdCompressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create zstd writer")
	}

	return zw, nil
}

package compression

import (
	"io"

	"github.com/pierrec/lz4"
)

func init() {
	RegisterCompressor("lz4", lz4Compressor{})
}

type lz4Compressor struct{}

func (lz4Compressor) Ext() string {
	return ".lz4"
}

func (lz4Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}

package compression

import (
	"io"

	"github.com/klauspost/compress/s2"
)

func init() {
	RegisterCompressor("s2", newS2Compressor())
	RegisterCompressor("s2-better", newS2Compressor(s2.WriterBetterCompression()))
}

func newS2Compressor(opts ...s2.WriterOption) Compressor {
	return &s2Compressor{opts}
}

type s2Compressor struct {
	opts []s2.WriterOption
}

func (c *s2Compressor) Ext() string {
	return ".s2"
}

func (c *s2Compressor) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w, c.opts...), nil
}

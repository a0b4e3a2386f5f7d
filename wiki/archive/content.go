package archive

import (
	"bytes"
	"context"
	"strings"

	"github.com/mwbackup/mwbackup/wiki/artifact"
)

// contentScript serializes every page revision to portable XML.
const contentScript = "dumpBackup.php"

// ExportContent runs the wiki's XML dump script and compresses its
// output into the pages artifact.
func ExportContent(ctx context.Context, target *artifact.Target, opt Options) *Result {
	res := &Result{}

	if err := opt.Scripts.CheckScript(contentScript); err != nil {
		res.warnf("cannot export pages: %v", err)
		return res
	}

	w, err := target.NewWriter(KindPages, opt.Compressor)
	if err != nil {
		res.warnf("cannot export pages: %v", err)
		return res
	}

	c := opt.Scripts.Command(ctx, contentScript, "--full", "--quiet")

	var stderr bytes.Buffer

	c.Stdout = w
	c.Stderr = &stderr

	log(ctx).Debugf("running %v", strings.Join(c.Args, " "))

	if err := c.Run(); err != nil {
		w.Discard()

		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			res.warnf("page export failed: %v (%v)", err, msg)
		} else {
			res.warnf("page export failed: %v", err)
		}

		return res
	}

	if err := w.Close(); err != nil {
		res.warnf("page export failed: %v", err)
		return res
	}

	res.Path = w.Path()

	return res
}

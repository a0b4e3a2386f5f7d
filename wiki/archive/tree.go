package archive

import (
	"archive/tar"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/mwbackup/mwbackup/wiki/artifact"
)

// imagesSubdir is the upload directory inside the installation.
const imagesSubdir = "images"

// vcsNames are entries excluded from the uploads archive the way
// tar --exclude-vcs would.
var vcsNames = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
	".bzr": true,
	"CVS":  true,
}

// ExportImages archives the uploaded-files tree into the images
// artifact. Version control metadata and the configured exclude
// patterns are left out.
func ExportImages(ctx context.Context, wikiDir string, target *artifact.Target, opt Options) *Result {
	res := &Result{}

	root := filepath.Join(wikiDir, imagesSubdir)
	if _, err := os.Stat(root); err != nil {
		res.warnf("images directory %v does not exist, skipping", root)
		return res
	}

	log(ctx).Debugf("archiving %v", root)

	if err := writeTreeArtifact(target, KindImages, opt, root, wikiDir, true, res); err != nil {
		res.warnf("image archive failed: %v", err)
	}

	return res
}

// ExportInstallation archives the whole installation directory,
// including LocalSettings.php in whatever state it currently is,
// relative to its parent directory.
func ExportInstallation(ctx context.Context, wikiDir string, target *artifact.Target, opt Options) *Result {
	res := &Result{}

	abs, err := filepath.Abs(wikiDir)
	if err != nil {
		res.warnf("installation archive failed: %v", err)
		return res
	}

	parent := filepath.Dir(abs)
	if _, err := os.Stat(parent); err != nil {
		res.warnf("parent directory %v does not exist, skipping installation archive", parent)
		return res
	}

	log(ctx).Debugf("archiving %v", abs)

	if err := writeTreeArtifact(target, KindInstallation, opt, abs, parent, false, res); err != nil {
		res.warnf("installation archive failed: %v", err)
	}

	return res
}

func writeTreeArtifact(target *artifact.Target, kind string, opt Options, walkRoot, relBase string, excludeVCS bool, res *Result) error {
	w, err := target.NewWriter(kind, opt.Compressor)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(w)

	wk := &walker{
		tw:       tw,
		root:     walkRoot,
		relBase:  relBase,
		patterns: opt.Excludes,
		vcs:      excludeVCS,
		skipDir:  opt.SkipDir,
		res:      res,
	}

	if err := wk.walk(); err != nil {
		w.Discard()
		return err
	}

	if err := tw.Close(); err != nil {
		w.Discard()
		return errors.Wrap(err, "unable to finish archive")
	}

	if err := w.Close(); err != nil {
		return err
	}

	res.Path = w.Path()

	return nil
}

// walker streams one directory tree into a tar writer. Unreadable
// entries produce warnings and are skipped, a write failure aborts the
// whole archive.
type walker struct {
	tw       *tar.Writer
	root     string
	relBase  string
	patterns []string
	vcs      bool
	skipDir  string
	res      *Result
}

func (wk *walker) walk() error {
	return filepath.WalkDir(wk.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			wk.res.warnf("skipping %v: %v", path, err)
			return nil
		}

		if wk.skipDir != "" && path == wk.skipDir {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		if path != wk.root && wk.skipName(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		return wk.add(path, d)
	})
}

func (wk *walker) skipName(name string) bool {
	if wk.vcs && vcsNames[name] {
		return true
	}

	for _, p := range wk.patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}

	return false
}

func (wk *walker) add(path string, d fs.DirEntry) error {
	fi, err := d.Info()
	if err != nil {
		wk.res.warnf("skipping %v: %v", path, err)
		return nil
	}

	rel, err := filepath.Rel(wk.relBase, path)
	if err != nil {
		wk.res.warnf("skipping %v: %v", path, err)
		return nil
	}

	link := ""

	if fi.Mode()&os.ModeSymlink != 0 {
		if link, err = os.Readlink(path); err != nil {
			wk.res.warnf("skipping %v: %v", path, err)
			return nil
		}
	}

	hdr, err := tar.FileInfoHeader(fi, link)
	if err != nil {
		wk.res.warnf("skipping %v: %v", path, err)
		return nil
	}

	hdr.Name = filepath.ToSlash(rel)
	if d.IsDir() {
		hdr.Name += "/"
	}

	if !fi.Mode().IsRegular() {
		return errors.Wrapf(wk.tw.WriteHeader(hdr), "unable to archive %v", path)
	}

	// open before writing the header so an unreadable file can still be
	// skipped without corrupting the stream
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		wk.res.warnf("skipping %v: %v", path, err)
		return nil
	}

	defer f.Close() //nolint:errcheck

	if err := wk.tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "unable to archive %v", path)
	}

	if _, err := io.CopyN(wk.tw, f, hdr.Size); err != nil {
		return errors.Wrapf(err, "unable to archive %v", path)
	}

	return nil
}

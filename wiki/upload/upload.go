// Package upload copies finished backup artifacts to S3-compatible
// object storage.
package upload

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mwbackup/mwbackup/logging"
)

var log = logging.Module("upload")

const defaultParallelism = 4

// Options describes the destination object store.
type Options struct {
	// Endpoint is the S3 API host, for example "s3.amazonaws.com" or a
	// self-hosted MinIO address.
	Endpoint string

	// AccessKey and SecretKey are static credentials. When AccessKey is
	// empty, credentials are taken from the usual AWS environment
	// variables instead.
	AccessKey string
	SecretKey string

	// Insecure disables TLS.
	Insecure bool

	// Parallel limits concurrent uploads, defaultParallelism when zero.
	Parallel int
}

// Destination is a parsed s3://bucket[/prefix] upload URL.
type Destination struct {
	Bucket string
	Prefix string
}

// ParseDestination parses an upload URL of the form s3://bucket[/prefix].
func ParseDestination(raw string) (*Destination, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid upload URL %q", raw)
	}

	if u.Scheme != "s3" || u.Host == "" {
		return nil, errors.Errorf("unsupported upload URL %q, expected s3://bucket[/prefix]", raw)
	}

	return &Destination{
		Bucket: u.Host,
		Prefix: strings.Trim(u.Path, "/"),
	}, nil
}

// ObjectKey returns the object name for one artifact: the destination
// prefix, the run prefix and the artifact filename.
func (d *Destination) ObjectKey(runPrefix, artifactPath string) string {
	return path.Join(d.Prefix, runPrefix, filepath.Base(artifactPath))
}

// Run uploads the provided artifact files concurrently. The run prefix
// becomes part of every object name so repeated runs stay separated.
func Run(ctx context.Context, paths []string, runPrefix string, dest *Destination, opt Options) error {
	creds := credentials.NewEnvAWS()
	if opt.AccessKey != "" {
		creds = credentials.NewStaticV4(opt.AccessKey, opt.SecretKey, "")
	}

	cli, err := minio.New(opt.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: !opt.Insecure,
	})
	if err != nil {
		return errors.Wrapf(err, "unable to connect to %v", opt.Endpoint)
	}

	parallel := opt.Parallel
	if parallel <= 0 {
		parallel = defaultParallelism
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, p := range paths {
		g.Go(func() error {
			key := dest.ObjectKey(runPrefix, p)

			log(ctx).Infof("uploading %v to s3://%v/%v", filepath.Base(p), dest.Bucket, key)

			if _, err := cli.FPutObject(ctx, dest.Bucket, key, p, minio.PutObjectOptions{
				ContentType: "application/octet-stream",
			}); err != nil {
				return errors.Wrapf(err, "unable to upload %v", p)
			}

			return nil
		})
	}

	return errors.Wrap(g.Wait(), "upload failed")
}

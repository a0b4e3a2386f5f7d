//go:build !windows

// Package freespace reports available disk space for a path.
package freespace

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Available returns the number of bytes available to unprivileged users on
// the volume containing path.
func Available(path string) (int64, error) {
	var st unix.Statfs_t

	if err := unix.Statfs(path, &st); err != nil {
		return 0, errors.Wrapf(err, "statfs %v", path)
	}

	return int64(st.Bavail) * int64(st.Bsize), nil //nolint:unconvert
}

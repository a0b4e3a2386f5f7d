//go:build windows

// Package freespace reports available disk space for a path.
package freespace

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// Available returns the number of bytes available to the calling user on
// the volume containing path.
func Available(path string) (int64, error) {
	var freeBytesAvailable, totalBytes, totalFreeBytes uint64

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid path %v", path)
	}

	if err := windows.GetDiskFreeSpaceEx(p, &freeBytesAvailable, &totalBytes, &totalFreeBytes); err != nil {
		return 0, errors.Wrapf(err, "GetDiskFreeSpaceEx %v", path)
	}

	return int64(freeBytesAvailable), nil
}

// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package ioctl wraps the raw ioctl syscall.
package ioctl

import (
	"golang.org/x/sys/unix"
)

// Ioctl executes an ioctl command on the specified file descriptor. On failure the returned
// error is the bare unix.Errno, so callers may test it with errors.Is.
func Ioctl(fd, cmd, ptr uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, cmd, ptr)
	if errno != 0 {
		return errno
	}

	return nil
}

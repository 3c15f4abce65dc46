// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Legacy HDIO identity ioctl.

package ata

import (
	"unsafe"

	"github.com/dswarbrick/ataid/ioctl"
)

// HDIO_GET_IDENTITY returns the IDENTIFY data cached by the kernel driver, <linux/hdreg.h>
const HDIO_GET_IDENTITY = 0x030d

// DriveID is the 512-byte struct hd_driveid returned by HDIO_GET_IDENTITY. The kernel has
// already converted words to host order and strings to reading order.
type DriveID [IDENTIFY_LEN]byte

// HDIO reads the legacy drive identity from an open device node.
type HDIO struct {
	Fd uintptr
}

// Identity issues HDIO_GET_IDENTITY.
func (h HDIO) Identity() (DriveID, error) {
	var id DriveID

	if err := ioctl.Ioctl(h.Fd, HDIO_GET_IDENTITY, uintptr(unsafe.Pointer(&id))); err != nil {
		return id, err
	}

	return id, nil
}

// DecodeLegacy extracts the properties available from a legacy drive identity. Only the model,
// serial number and firmware revision are used; feature words are not reported.
func DecodeLegacy(id *DriveID) Properties {
	var p Properties

	p.add(KeyATA, true)
	p.add(KeyBus, busATA)
	identityProperties(&p,
		identString(id[:], wordModel, modelLen, false),
		identString(id[:], wordSerial, serialLen, false),
		identString(id[:], wordFirmware, firmwareLen, false))

	return p
}

// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package ata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newDriveID(model, serial, firmware string) *DriveID {
	id := new(DriveID)
	copy(id[wordModel*2:wordModel*2+modelLen], model)
	copy(id[wordSerial*2:wordSerial*2+serialLen], serial)
	copy(id[wordFirmware*2:wordFirmware*2+firmwareLen], firmware)

	return id
}

func TestDecodeLegacy(t *testing.T) {
	assert := assert.New(t)

	id := newDriveID("ST3500418AS                             ", "    9VM1ABCD", "CC38    ")
	// Feature words must be ignored
	id[wordCmdSet1*2] = 0xff
	id[wordRotationRate*2] = 0x01

	assert.Equal([]string{
		"ID_ATA=1",
		"ID_BUS=ata",
		"ID_MODEL=ST3500418AS",
		`ID_MODEL_ENC=ST3500418AS\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20\x20`,
		"ID_REVISION=CC38",
		"ID_SERIAL=ST3500418AS_9VM1ABCD",
		"ID_SERIAL_SHORT=9VM1ABCD",
	}, propertyStrings(DecodeLegacy(id)))
}

func TestDecodeLegacyNoSerial(t *testing.T) {
	p := DecodeLegacy(newDriveID("QEMU HARDDISK", "", "2.5+"))

	assert.Equal(t, "QEMU HARDDISK", p.Identity())
	assert.Equal(t, `QEMU\x20HARDDISK`, p.Value(KeyModelEnc))
	assert.False(t, p.Has(KeySerialShort))
	assert.False(t, p.Has(KeyType))
}

// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package ata

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setWord(raw *RawIdentify, n int, v uint16) {
	binary.LittleEndian.PutUint16(raw[n*2:], v)
}

// setString stores s space padded at word offset n, in on-wire (byte-swapped) order.
func setString(raw *RawIdentify, n, length int, s string) {
	b := raw[n*2 : n*2+length]
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)

	for i := 0; i < length; i += 2 {
		b[i], b[i+1] = b[i+1], b[i]
	}
}

func newRawIdentify(model, serial, firmware string) *RawIdentify {
	raw := new(RawIdentify)
	setString(raw, wordModel, modelLen, model)
	setString(raw, wordSerial, serialLen, serial)
	setString(raw, wordFirmware, firmwareLen, firmware)

	return raw
}

func TestFixupStrings(t *testing.T) {
	assert := assert.New(t)

	raw := newRawIdentify("WDC WD10EZEX-08WN4A0", "WD-WCC6Y0123456", "01.01A01")
	id := Fixup(raw)

	assert.Equal("WDC WD10EZEX-08WN4A0                    ", string(id.Model()))
	assert.Equal("WD-WCC6Y0123456     ", string(id.Serial()))
	assert.Equal("01.01A01", string(id.Firmware()))

	// On the wire, "WD" is stored as "DW"
	assert.Equal(byte('D'), raw[wordModel*2])
}

func TestFixupDoesNotModifyRaw(t *testing.T) {
	raw := newRawIdentify("FOO", "BAR", "1")
	orig := *raw

	Fixup(raw)
	assert.Equal(t, orig, *raw)
}

func TestFixupStringInvolution(t *testing.T) {
	raw := newRawIdentify("Samsung SSD 860 EVO 500GB", "S3Z1NB0K123456X", "RVT01B6Q")

	once := identString(raw[:], wordModel, modelLen, true)
	twice := identString(once, 0, modelLen, true)

	assert.Equal(t, raw[wordModel*2:wordModel*2+modelLen], twice)
}

func TestFixupWords(t *testing.T) {
	raw := new(RawIdentify)
	raw[wordRotationRate*2] = 0x10
	raw[wordRotationRate*2+1] = 0x1c

	assert.Equal(t, uint16(0x1c10), Fixup(raw).Word(wordRotationRate))
}

func TestIsZero(t *testing.T) {
	raw := new(RawIdentify)
	assert.True(t, raw.IsZero())

	raw[511] = 1
	assert.False(t, raw.IsZero())
}

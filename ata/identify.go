// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// ATA IDENTIFY data handling.

package ata

import (
	"encoding/binary"

	"github.com/dswarbrick/ataid/utils"
)

// Word offsets into IDENTIFY (PACKET) DEVICE data, ACS-3 table 45.
const (
	wordConfig            = 0
	wordSerial            = 10
	wordFirmware          = 23
	wordModel             = 27
	wordQueueDepth        = 75
	wordSATACapabilities  = 76
	wordCmdSet1           = 82
	wordCmdSet2           = 83
	wordCmdSetExt         = 84
	wordCmdEnabled1       = 85
	wordCmdEnabled2       = 86
	wordCmdDefault        = 87
	wordEraseTime         = 89
	wordEnhancedEraseTime = 90
	wordAPM               = 91
	wordAAM               = 94
	wordWWN               = 108
	wordLockFunction      = 128
	wordRotationRate      = 217
)

// String field lengths in bytes.
const (
	serialLen   = 20
	firmwareLen = 8
	modelLen    = 40
)

// RawIdentify is IDENTIFY data exactly as returned by the device: little-endian words, with ATA
// strings stored as byte-swapped character pairs. Use Fixup to read it.
type RawIdentify [IDENTIFY_LEN]byte

// IsZero reports whether every byte of the buffer is zero.
func (r *RawIdentify) IsZero() bool {
	for _, b := range r {
		if b != 0 {
			return false
		}
	}

	return true
}

// IdentifyData is IDENTIFY data with words in host order and strings in reading order.
type IdentifyData struct {
	words    [IDENTIFY_LEN / 2]uint16
	serial   [serialLen]byte
	firmware [firmwareLen]byte
	model    [modelLen]byte
}

// identString copies the string field of length bytes at word offset from buf, swapping each
// character pair when swap is set. Both the SAT and HDIO identity layouts place strings at the
// same offsets.
func identString(buf []byte, word, length int, swap bool) []byte {
	s := make([]byte, length)
	copy(s, buf[word*2:word*2+length])

	if swap {
		utils.SwapBytes(s)
	}

	return s
}

// Fixup converts raw IDENTIFY data into IdentifyData. The raw buffer is not modified.
func Fixup(raw *RawIdentify) *IdentifyData {
	id := new(IdentifyData)

	for i := range id.words {
		id.words[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}

	copy(id.serial[:], identString(raw[:], wordSerial, serialLen, true))
	copy(id.firmware[:], identString(raw[:], wordFirmware, firmwareLen, true))
	copy(id.model[:], identString(raw[:], wordModel, modelLen, true))

	return id
}

// Word returns IDENTIFY word n in host order.
func (id *IdentifyData) Word(n int) uint16 {
	return id.words[n]
}

// Serial returns the space padded serial number.
func (id *IdentifyData) Serial() []byte {
	return append([]byte(nil), id.serial[:]...)
}

// Firmware returns the space padded firmware revision.
func (id *IdentifyData) Firmware() []byte {
	return append([]byte(nil), id.firmware[:]...)
}

// Model returns the space padded model number.
func (id *IdentifyData) Model() []byte {
	return append([]byte(nil), id.model[:]...)
}

// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// ATA command definitions.

package ata

import (
	"github.com/dswarbrick/ataid/scsi"
)

const (
	// ATA commands
	ATA_IDENTIFY_PACKET_DEVICE = 0xa1
	ATA_IDENTIFY_DEVICE        = 0xec

	// ATA PASS-THROUGH protocol field, shifted into bits 1-4 of CDB byte 1
	PIO_DATA_IN = 4

	// OFF_LINE=0, CK_COND=1, T_DIR=1, BYT_BLOK=1, T_LENGTH=2
	passThruFlags = 0x2e

	// Length of IDENTIFY (PACKET) DEVICE data
	IDENTIFY_LEN = 512
)

// senseRule reports whether a sense buffer signals successful ATA command completion.
type senseRule func(sense []byte) bool

// Descriptor format sense data carrying an ATA Status Return descriptor (SAT-2 12.2.2.6).
func descriptorATAReturn(sense []byte) bool {
	return len(sense) >= 10 && sense[0] == 0x72 && sense[8] == 0x09 && sense[9] == 0x0c
}

// Fixed format sense data with ASC/ASCQ 00h/1Dh, "ATA pass through information available".
func fixedATAReturn(sense []byte) bool {
	return len(sense) >= 14 && sense[0] == 0x70 && sense[12] == 0x00 && sense[13] == 0x1d
}

// PassThrough is an ATA command wrapped in a SCSI ATA PASS-THROUGH CDB, together with the sense
// patterns that signal its completion. CK_COND is always set, so a completed command reports
// CHECK CONDITION and the transport status fields are not consulted.
type PassThrough struct {
	Name   string
	CDB    []byte
	accept []senseRule
}

// IdentifyDevice returns IDENTIFY DEVICE as a 12-byte ATA PASS-THROUGH command. Both descriptor
// and fixed format sense data are accepted.
func IdentifyDevice() PassThrough {
	cdb := scsi.CDB12{
		scsi.SCSI_ATA_PASSTHRU_12,
		PIO_DATA_IN << 1,
		passThruFlags,
		0, // features
		1, // sector count
		0, // LBA low
		0, // LBA mid
		0, // LBA high
		0, // device
		ATA_IDENTIFY_DEVICE,
	}

	return PassThrough{
		Name:   "IDENTIFY DEVICE",
		CDB:    cdb[:],
		accept: []senseRule{descriptorATAReturn, fixedATAReturn},
	}
}

// IdentifyPacketDevice returns IDENTIFY PACKET DEVICE as a 16-byte ATA PASS-THROUGH command. Only
// descriptor format sense data is accepted.
func IdentifyPacketDevice() PassThrough {
	cdb := scsi.CDB16{
		scsi.SCSI_ATA_PASSTHRU_16,
		PIO_DATA_IN << 1,
		passThruFlags,
		0, 0, // features
		0, 1, // sector count
		0, 0, // LBA low
		0, 0, // LBA mid
		0, 0, // LBA high
		0, // device
		ATA_IDENTIFY_PACKET_DEVICE,
	}

	return PassThrough{
		Name:   "IDENTIFY PACKET DEVICE",
		CDB:    cdb[:],
		accept: []senseRule{descriptorATAReturn},
	}
}

// Accepts reports whether sense matches one of the completion patterns of the command.
func (pt PassThrough) Accepts(sense []byte) bool {
	for _, rule := range pt.accept {
		if rule(sense) {
			return true
		}
	}

	return false
}

// Execute sends the command and returns the 512-byte response.
func (pt PassThrough) Execute(t scsi.Transport) (RawIdentify, error) {
	var raw RawIdentify

	cmd := scsi.NewCommand(pt.CDB, IDENTIFY_LEN)

	st, err := t.Execute(cmd)
	if err != nil {
		return raw, err
	}

	if !pt.Accepts(cmd.Sense) {
		return raw, scsi.NewSgioError(st, cmd.Sense)
	}

	copy(raw[:], cmd.Data)

	return raw, nil
}

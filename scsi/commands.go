// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// SCSI command definitions.

package scsi

const (
	// SCSI commands used by this package
	SCSI_INQUIRY         = 0x12
	SCSI_ATA_PASSTHRU_12 = 0xa1
	SCSI_ATA_PASSTHRU_16 = 0x85

	// Minimum length of standard INQUIRY response
	INQ_REPLY_LEN = 36

	// Length of the sense buffer handed to the SG_IO ioctl
	SENSE_BUF_LEN = 32
)

// Peripheral device types, SPC-4 table 146.
const (
	TypeDirectAccess  = 0x00
	TypeSequential    = 0x01
	TypeCDROM         = 0x05
	TypeOptical       = 0x07
	TypeHostManagedZB = 0x14
)

// SCSI CDB types
type CDB6 [6]byte
type CDB12 [12]byte
type CDB16 [16]byte

// InquiryCDB returns a standard INQUIRY command (SPC-4 section 6.4) requesting allocLen bytes.
func InquiryCDB(allocLen uint16) CDB6 {
	return CDB6{SCSI_INQUIRY, 0, 0, byte(allocLen >> 8), byte(allocLen), 0}
}

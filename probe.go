// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// ATA device probing via SCSI / ATA Translation.

package ataid

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dswarbrick/ataid/ata"
	"github.com/dswarbrick/ataid/scsi"
)

// LegacyIdentifier returns the drive identity cached by the kernel driver.
type LegacyIdentifier interface {
	Identity() (ata.DriveID, error)
}

// Prober identifies a single device. It holds no state between calls and must not be shared by
// concurrent callers of the same device.
type Prober struct {
	Transport scsi.Transport
	Legacy    LegacyIdentifier
	Log       logrus.FieldLogger
}

// NewProber returns a Prober issuing SG_IO and HDIO ioctls on fd, which the caller opened and
// remains responsible for closing.
func NewProber(fd uintptr, cfg Config, log logrus.FieldLogger) *Prober {
	return &Prober{
		Transport: scsi.NewTransport(fd, cfg.Timeout),
		Legacy:    ata.HDIO{Fd: fd},
		Log:       log,
	}
}

// Probe sends IDENTIFY DEVICE, or IDENTIFY PACKET DEVICE for CD/DVD devices, and returns the raw
// response and whether it came from a packet device.
//
// An INQUIRY is sent first and the ATA command is only issued to direct access block devices and
// CD/DVD devices. ATA PASS-THROUGH (12) shares its opcode with the MMC BLANK command, so sending it
// to the wrong device class could blank media.
func (p *Prober) Probe() (*ata.RawIdentify, bool, error) {
	inq, err := scsi.Inquiry(p.Transport)
	if err != nil {
		return nil, false, fmt.Errorf("INQUIRY: %w", err)
	}

	p.Log.WithField("peripheral_type", fmt.Sprintf("0x%02x", inq.PeripheralType)).
		Debugf("INQUIRY: %s", inq)

	var (
		pt     ata.PassThrough
		packet bool
	)

	switch inq.PeripheralType {
	case scsi.TypeCDROM:
		pt = ata.IdentifyPacketDevice()
		packet = true
	case scsi.TypeDirectAccess, scsi.TypeHostManagedZB:
		pt = ata.IdentifyDevice()
	default:
		return nil, false, &DeviceTypeError{Type: inq.PeripheralType}
	}

	raw, err := pt.Execute(p.Transport)
	if err != nil {
		return nil, packet, fmt.Errorf("%s: %w", pt.Name, err)
	}

	if raw.IsZero() {
		return nil, packet, fmt.Errorf("%s: %w", pt.Name, ErrEmptyIdentify)
	}

	return &raw, packet, nil
}

// Identify returns the device properties. If the ATA PASS-THROUGH probe fails for any reason, the
// legacy HDIO_GET_IDENTITY ioctl is tried, which only yields model, serial number and firmware
// revision. A *NoIdentityError is returned if both fail.
func (p *Prober) Identify() (ata.Properties, error) {
	raw, packet, err := p.Probe()
	if err == nil {
		p.Log.WithField("packet_device", packet).Debug("decoding IDENTIFY data")
		return ata.Decode(ata.Fixup(raw)), nil
	}

	p.Log.WithError(err).Debug("ATA PASS-THROUGH failed, trying HDIO_GET_IDENTITY")

	id, lerr := p.Legacy.Identity()
	if lerr != nil {
		p.Log.WithError(lerr).Debug("HDIO_GET_IDENTITY failed")
		return nil, newNoIdentityError(err, fmt.Errorf("HDIO_GET_IDENTITY: %w", lerr))
	}

	return ata.DecodeLegacy(&id), nil
}

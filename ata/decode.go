// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// ATA IDENTIFY decoding into udev style device properties.

package ata

import (
	"github.com/dswarbrick/ataid/utils"
)

// Property keys
const (
	KeyATA          = "ID_ATA"
	KeyType         = "ID_TYPE"
	KeyBus          = "ID_BUS"
	KeyModel        = "ID_MODEL"
	KeyModelEnc     = "ID_MODEL_ENC"
	KeyRevision     = "ID_REVISION"
	KeySerial       = "ID_SERIAL"
	KeySerialShort  = "ID_SERIAL_SHORT"
	KeyWriteCache   = "ID_ATA_WRITE_CACHE"
	KeyHPA          = "ID_ATA_FEATURE_SET_HPA"
	KeyPM           = "ID_ATA_FEATURE_SET_PM"
	KeySecurity     = "ID_ATA_FEATURE_SET_SECURITY"
	KeySMART        = "ID_ATA_FEATURE_SET_SMART"
	KeyAAM          = "ID_ATA_FEATURE_SET_AAM"
	KeyPUIS         = "ID_ATA_FEATURE_SET_PUIS"
	KeyAPM          = "ID_ATA_FEATURE_SET_APM"
	KeyMicrocode    = "ID_ATA_DOWNLOAD_MICROCODE"
	KeySATA         = "ID_ATA_SATA"
	KeySATAGen1     = "ID_ATA_SATA_SIGNAL_RATE_GEN1"
	KeySATAGen2     = "ID_ATA_SATA_SIGNAL_RATE_GEN2"
	KeyRotationRate = "ID_ATA_ROTATION_RATE_RPM"
	KeyWWN          = "ID_WWN"
	KeyWWNExtension = "ID_WWN_WITH_EXTENSION"
	KeyCFA          = "ID_ATA_CFA"
	KeyDriveFamily  = "ID_ATA_DRIVE_FAMILY"
	enabledSuffix   = "_ENABLED"
	busATA          = "ata"
	wordSeparator   = " "
)

// bit selects a single bit of an IDENTIFY word. The zero value selects nothing.
type bit struct {
	word int
	mask uint16
}

func (b bit) set(id *IdentifyData) bool {
	return b.mask != 0 && id.Word(b.word)&b.mask != 0
}

// featureSet describes a feature reported in the command set supported words and, if enabled is
// non-zero, in the command set enabled words.
type featureSet struct {
	key       string
	supported bit
	enabled   bit
	details   func(id *IdentifyData, enabled bool, p *Properties)
}

var featureSets = []featureSet{
	{KeyWriteCache, bit{wordCmdSet1, 1 << 5}, bit{wordCmdEnabled1, 1 << 5}, nil},
	{KeyHPA, bit{wordCmdSet1, 1 << 10}, bit{wordCmdEnabled1, 1 << 10}, nil},
	{KeyPM, bit{wordCmdSet1, 1 << 3}, bit{wordCmdEnabled1, 1 << 3}, nil},
	{KeySecurity, bit{wordCmdSet1, 1 << 1}, bit{wordCmdEnabled1, 1 << 1}, securityDetails},
	{KeySMART, bit{wordCmdSet1, 1 << 0}, bit{wordCmdEnabled1, 1 << 0}, nil},
	{KeyAAM, bit{wordCmdSet2, 1 << 9}, bit{wordCmdEnabled2, 1 << 9}, aamDetails},
	{KeyPUIS, bit{wordCmdSet2, 1 << 5}, bit{wordCmdEnabled2, 1 << 5}, nil},
	{KeyAPM, bit{wordCmdSet2, 1 << 3}, bit{wordCmdEnabled2, 1 << 3}, apmDetails},
	{KeyMicrocode, bit{wordCmdSet2, 1 << 0}, bit{}, nil},
}

// Security state flags in the device lock function word.
var securityFlags = []struct {
	key string
	bit bit
}{
	{KeySecurity + "_EXPIRE", bit{wordLockFunction, 1 << 4}},
	{KeySecurity + "_FROZEN", bit{wordLockFunction, 1 << 3}},
	{KeySecurity + "_LOCKED", bit{wordLockFunction, 1 << 2}},
}

func securityDetails(id *IdentifyData, enabled bool, p *Properties) {
	p.add(KeySecurity+"_ERASE_UNIT_MIN", int(id.Word(wordEraseTime))*2)

	if enabled {
		if id.Word(wordLockFunction)&(1<<8) != 0 {
			p.add(KeySecurity+"_LEVEL", "maximum")
		} else {
			p.add(KeySecurity+"_LEVEL", "high")
		}
	}

	if id.Word(wordLockFunction)&(1<<5) != 0 {
		p.add(KeySecurity+"_ENHANCED_ERASE_UNIT_MIN", int(id.Word(wordEnhancedEraseTime))*2)
	}

	for _, f := range securityFlags {
		if f.bit.set(id) {
			p.add(f.key, true)
		}
	}
}

func aamDetails(id *IdentifyData, enabled bool, p *Properties) {
	p.add(KeyAAM+"_VENDOR_RECOMMENDED_VALUE", int(id.Word(wordAAM)>>8))
	p.add(KeyAAM+"_CURRENT_VALUE", int(id.Word(wordAAM)&0xff))
}

func apmDetails(id *IdentifyData, enabled bool, p *Properties) {
	if enabled {
		p.add(KeyAPM+"_CURRENT_VALUE", int(id.Word(wordAPM)&0xff))
	}
}

// DeviceType returns the device class encoded in the general configuration word.
func DeviceType(config uint16) string {
	// Bit 15 set: ATAPI device, bits 12:8 hold the command packet set
	if config&0x8000 == 0 {
		return "disk"
	}

	switch (config >> 8) & 0x1f {
	case 0, 5:
		return "cd"
	case 1:
		return "tape"
	case 7:
		return "optical"
	default:
		return "generic"
	}
}

// identityProperties adds the model, firmware and serial derived properties.
func identityProperties(p *Properties, model, serial, firmware []byte) {
	m := utils.ReplaceChars(utils.ReplaceWhitespace(model, wordSeparator), wordSeparator)
	s := utils.ReplaceChars(utils.ReplaceWhitespace(serial, wordSeparator), wordSeparator)
	r := utils.ReplaceChars(utils.ReplaceWhitespace(firmware, wordSeparator), wordSeparator)

	p.add(KeyModel, m)
	p.add(KeyModelEnc, utils.EncodeDevnodeName(model))
	p.add(KeyRevision, r)

	if s != "" {
		p.add(KeySerial, m+"_"+s)
		p.add(KeySerialShort, s)
	} else {
		p.add(KeySerial, m)
	}
}

// Decode extracts the device properties from fixed-up IDENTIFY data.
func Decode(id *IdentifyData) Properties {
	var p Properties

	// Device speaks the ATA protocol
	p.add(KeyATA, true)
	p.add(KeyType, DeviceType(id.Word(wordConfig)))
	p.add(KeyBus, busATA)
	identityProperties(&p, id.Model(), id.Serial(), id.Firmware())

	for _, fs := range featureSets {
		if !fs.supported.set(id) {
			continue
		}

		p.add(fs.key, true)

		enabled := fs.enabled.set(id)
		if fs.enabled.mask != 0 {
			p.add(fs.key+enabledSuffix, enabled)
		}

		if fs.details != nil {
			fs.details(id, enabled, &p)
		}
	}

	// A PATA device sets word 76 to 0000h or FFFFh, in which case words 76-79 are not valid
	if sata := id.Word(wordSATACapabilities); sata != 0x0000 && sata != 0xffff {
		p.add(KeySATA, true)

		if sata&(1<<2) != 0 {
			p.add(KeySATAGen2, true)
		}
		if sata&(1<<1) != 0 {
			p.add(KeySATAGen1, true)
		}
	}

	// Nominal media rotation rate, 0001h means non-rotating media
	if rpm := id.Word(wordRotationRate); rpm == 0x0001 {
		p.add(KeyRotationRate, 0)
	} else if rpm >= 0x0401 && rpm <= 0xfffe {
		p.add(KeyRotationRate, int(rpm))
	}

	// NAA IEEE Registered format, word 108 bits 15:12 shall contain 5h
	if id.Word(wordWWN)&0xf000 == 0x5000 {
		var wwn uint64

		for i := 0; i < 4; i++ {
			wwn = wwn<<16 | uint64(id.Word(wordWWN+i))
		}

		p.add(KeyWWN, Hex(wwn))
		p.add(KeyWWNExtension, Hex(wwn))
	}

	// See include/linux/ata.h, ata_id_is_cfa()
	if w := id.Word(wordConfig); w == 0x848a || w == 0x844a ||
		id.Word(wordCmdSet2)&0xc004 == 0x4004 {
		p.add(KeyCFA, true)
	}

	return p
}

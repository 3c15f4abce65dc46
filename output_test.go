// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package ataid

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dswarbrick/ataid/ata"
)

var testProps = ata.Properties{
	{Key: ata.KeyATA, Value: true},
	{Key: ata.KeyModel, Value: "FOO"},
	{Key: ata.KeySerial, Value: "FOO_BAR"},
	{Key: ata.KeyRotationRate, Value: 0},
	{Key: ata.KeyWWN, Value: ata.Hex(0x5000111122223333)},
}

func TestWriteExport(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, WriteExport(&buf, testProps))
	assert.Equal(t, "ID_ATA=1\nID_MODEL=FOO\nID_SERIAL=FOO_BAR\nID_ATA_ROTATION_RATE_RPM=0\n"+
		"ID_WWN=0x5000111122223333\n", buf.String())
}

func TestWriteIdentity(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, WriteIdentity(&buf, testProps))
	assert.Equal(t, "FOO_BAR\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, WriteYAML(&buf, testProps))
	assert.Equal(t, "ID_ATA: true\nID_MODEL: FOO\nID_SERIAL: FOO_BAR\nID_ATA_ROTATION_RATE_RPM: 0\n"+
		"ID_WWN: \"0x5000111122223333\"\n", buf.String())
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, []string{"export", "id", "yaml"}, FormatNames())
}

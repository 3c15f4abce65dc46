// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package drivedb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDb = `# This file was generated from:
# drivedb.h - smartmontools drive database file
drives:
- family: "$Id: drivedb.h 5000 2020-01-01 00:00:00Z $"
  model_regex: "-"
- family: DEFAULT
  model_regex: "-"
- family: "USB: Seagate FreeAgent Go; "
  model_regex: 0x0bc2:0x2(000|100|101)
- family: Western Digital Blue
  model_regex: WDC WD((25|32|50)00AAKS|10EZEX)-.*
- family: Seagate Barracuda 7200.12
  model_regex: ST3500418AS
  firmware_regex: CC3[89]
  warning: A firmware update for this drive is available
- family: Broken entry
  model_regex: "WDC ((("
`

func TestLookupDrive(t *testing.T) {
	assert := assert.New(t)

	db, err := ParseDriveDb(strings.NewReader(testDb))
	require.NoError(t, err)
	assert.Len(db.Drives, 6)

	d, ok := db.LookupDrive("WDC WD10EZEX-08WN4A0", "01.01A01")
	assert.True(ok)
	assert.Equal("Western Digital Blue", d.Family)

	d, ok = db.LookupDrive("ST3500418AS", "CC38")
	assert.True(ok)
	assert.Equal("A firmware update for this drive is available", d.WarningMsg)

	// Firmware regex must match
	_, ok = db.LookupDrive("ST3500418AS", "CC40")
	assert.False(ok)

	// Regexes must match the whole model
	_, ok = db.LookupDrive("XST3500418AS", "CC38")
	assert.False(ok)

	// Placeholder, default and USB entries never match
	_, ok = db.LookupDrive("-", "")
	assert.False(ok)
	_, ok = db.LookupDrive("0x0bc2:0x2000", "")
	assert.False(ok)
}

func TestOpenDriveDb(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drivedb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDb), 0644))

	db, err := OpenDriveDb(path)
	assert.NoError(t, err)
	assert.Len(t, db.Drives, 6)

	_, err = OpenDriveDb(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

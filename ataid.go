// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package ataid identifies ATA devices behind a SCSI / ATA Translation layer and reports their
// IDENTIFY data as udev style device properties.
package ataid

import (
	"time"
)

// Config holds the probe settings.
type Config struct {
	// Timeout for each SG_IO command. Zero selects the default of 30 seconds.
	Timeout time.Duration `mapstructure:"timeout"`
}

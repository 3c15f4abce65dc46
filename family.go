// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package ataid

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dswarbrick/ataid/ata"
	"github.com/dswarbrick/ataid/drivedb"
	"github.com/dswarbrick/ataid/utils"
)

// rawModel returns the model number as reported by the device, with only the padding removed.
// Drive database regexes are written against it rather than the sanitized ID_MODEL.
func rawModel(p ata.Properties) string {
	if enc := p.Value(ata.KeyModelEnc); enc != "" {
		return strings.TrimSpace(utils.DecodeDevnodeName(enc))
	}

	return p.Value(ata.KeyModel)
}

// AddDriveFamily looks the device up in the drive database and, if found, returns p with the drive
// family appended. Warnings attached to the database entry are logged.
func AddDriveFamily(p ata.Properties, db *drivedb.DriveDb, log logrus.FieldLogger) ata.Properties {
	name := rawModel(p)

	model, ok := db.LookupDrive(name, p.Value(ata.KeyRevision))
	if !ok {
		log.WithField("model", name).Debug("drive not found in drive database")
		return p
	}

	if model.WarningMsg != "" {
		log.WithField("family", model.Family).Warn(model.WarningMsg)
	}

	return p.With(ata.KeyDriveFamily, model.Family)
}

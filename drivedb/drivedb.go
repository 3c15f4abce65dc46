// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Package drivedb reads a YAML conversion of the smartmontools drivedb.h drive database.
package drivedb

import (
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"
)

type DriveModel struct {
	Family        string `yaml:"family,omitempty"`
	ModelRegex    string `yaml:"model_regex,omitempty"`
	FirmwareRegex string `yaml:"firmware_regex,omitempty"`
	WarningMsg    string `yaml:"warning,omitempty"`

	modelRe    *regexp.Regexp
	firmwareRe *regexp.Regexp
}

type DriveDb struct {
	Drives []DriveModel `yaml:"drives"`
}

// skip reports whether an entry is not a real drive family: the version placeholder, the default
// presets and USB bridge entries, whose regexes match USB IDs instead of model numbers.
func (d *DriveModel) skip() bool {
	return strings.HasPrefix(d.Family, "$Id") || d.Family == "DEFAULT" ||
		strings.HasPrefix(d.Family, "USB:") || d.modelRe == nil
}

// LookupDrive returns the first drive family whose model regex (and firmware regex, if present)
// fully matches the given IDENTIFY strings.
func (db *DriveDb) LookupDrive(model, firmware string) (DriveModel, bool) {
	for _, d := range db.Drives {
		if d.skip() {
			continue
		}

		if !d.modelRe.MatchString(model) {
			continue
		}

		if d.firmwareRe != nil && !d.firmwareRe.MatchString(firmware) {
			continue
		}

		return d, true
	}

	return DriveModel{}, false
}

// fullMatch compiles expr anchored at both ends, since drivedb.h regexes must match the whole
// string. Entries with invalid expressions are ignored.
func fullMatch(expr string) *regexp.Regexp {
	if expr == "" {
		return nil
	}

	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil
	}

	return re
}

// ParseDriveDb decodes a YAML-formatted drive database.
func ParseDriveDb(r io.Reader) (DriveDb, error) {
	var db DriveDb

	if err := yaml.NewDecoder(r).Decode(&db); err != nil {
		return db, err
	}

	for i, d := range db.Drives {
		db.Drives[i].modelRe = fullMatch(d.ModelRegex)
		db.Drives[i].firmwareRe = fullMatch(d.FirmwareRegex)
	}

	return db, nil
}

// OpenDriveDb opens a YAML-formatted drive database, unmarshalls it, and returns a DriveDb.
func OpenDriveDb(dbfile string) (DriveDb, error) {
	f, err := os.Open(dbfile)
	if err != nil {
		return DriveDb{}, err
	}

	defer f.Close()

	return ParseDriveDb(f)
}

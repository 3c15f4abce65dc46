// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package drivedb

import (
	"io"
	"strconv"
	"strings"
	"text/scanner"

	"gopkg.in/yaml.v2"
)

// Fields of a drivedb.h entry, in source order. Attribute presets follow the warning but are not
// carried over.
const (
	fieldFamily = iota
	fieldModel
	fieldFirmware
	fieldWarning
	numFields = 5
)

// ConvertHeader parses the C initializer list of a smartmontools drivedb.h and returns the
// leading license comment, reformatted as YAML comments, and the drive entries.
func ConvertHeader(src io.Reader) (string, DriveDb) {
	var (
		s      scanner.Scanner
		prev   rune
		idx    int
		inItem bool
		db     DriveDb
		fields = make([]string, numFields)
	)

	header := "# This file was generated from:\n"

	s.Init(src)
	s.Mode ^= scanner.SkipComments

	// Only string literals between braces are of interest. Adjacent literals are concatenated,
	// including across interleaved comments.
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		switch {
		case prev == 0 && tok == scanner.Comment:
			for _, line := range strings.Split(s.TokenText(), "\n") {
				header += "# " + strings.TrimLeft(line, "/* ") + "\n"
			}
		case (prev == '{' || prev == ',') && tok == scanner.String:
			if idx < numFields {
				fields[idx] = strings.Trim(s.TokenText(), `"`)
			}
			inItem = true
		case prev == scanner.String && tok == ',':
			idx++
		case (prev == scanner.String || prev == scanner.Comment) && tok == scanner.String:
			if idx < numFields {
				fields[idx] += strings.Trim(s.TokenText(), `"`)
			}
		case tok == '}' && inItem:
			db.Drives = append(db.Drives, DriveModel{
				Family:        unquote(fields[fieldFamily]),
				ModelRegex:    unquote(fields[fieldModel]),
				FirmwareRegex: unquote(fields[fieldFirmware]),
				WarningMsg:    unquote(fields[fieldWarning]),
			})
			fields = make([]string, numFields)
			idx = 0
			inItem = false
		}

		prev = tok
	}

	return header, db
}

// unquote resolves C escape sequences in a string literal body. Bodies that fail to unescape are
// dropped.
func unquote(s string) string {
	if tmp, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return tmp
	}

	return ""
}

// Write encodes the database as YAML, preceded by header.
func (db DriveDb) Write(w io.Writer, header string) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	if err := enc.Encode(db); err != nil {
		return err
	}

	return enc.Close()
}

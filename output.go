// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Property output formats.

package ataid

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v2"

	"github.com/dswarbrick/ataid/ata"
)

// WriterFunc writes a property set to w.
type WriterFunc func(w io.Writer, p ata.Properties) error

// Formats maps output format names to their writers.
var Formats = map[string]WriterFunc{
	"id":     WriteIdentity,
	"export": WriteExport,
	"yaml":   WriteYAML,
}

// FormatNames returns the supported output format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(Formats))
	for name := range Formats {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// WriteExport writes one KEY=VALUE line per property, suitable for udev IMPORT{program}.
func WriteExport(w io.Writer, p ata.Properties) error {
	bw := bufio.NewWriter(w)

	for _, prop := range p {
		if _, err := fmt.Fprintln(bw, prop); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteIdentity writes the device identity, model and serial number, on a single line.
func WriteIdentity(w io.Writer, p ata.Properties) error {
	_, err := fmt.Fprintln(w, p.Identity())
	return err
}

// WriteYAML writes the properties as an ordered YAML mapping.
func WriteYAML(w io.Writer, p ata.Properties) error {
	ms := make(yaml.MapSlice, len(p))

	for i, prop := range p {
		ms[i] = yaml.MapItem{Key: prop.Key, Value: prop.Value}
		if h, ok := prop.Value.(ata.Hex); ok {
			ms[i].Value = h.String()
		}
	}

	enc := yaml.NewEncoder(w)
	if err := enc.Encode(ms); err != nil {
		return err
	}

	return enc.Close()
}

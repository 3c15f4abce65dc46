// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package ata

import (
	"fmt"
	"strconv"
)

// Hex is an identifier rendered in hexadecimal, e.g. a world wide name.
type Hex uint64

func (h Hex) String() string {
	return fmt.Sprintf("%#x", uint64(h))
}

// Property is a single device property. Value is a string, bool, int or Hex.
type Property struct {
	Key   string
	Value interface{}
}

// FormatValue renders the value the way udev properties are written: booleans as 1 or 0,
// integers in decimal.
func (p Property) FormatValue() string {
	switch v := p.Value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(v)
	case Hex:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (p Property) String() string {
	return p.Key + "=" + p.FormatValue()
}

// Properties is an ordered set of device properties. Order only matters for presentation.
type Properties []Property

func (p *Properties) add(key string, value interface{}) {
	*p = append(*p, Property{Key: key, Value: value})
}

// Get returns the value of key.
func (p Properties) Get(key string) (interface{}, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}

	return nil, false
}

// Value returns the formatted value of key, or "" if it is not present.
func (p Properties) Value(key string) string {
	for _, prop := range p {
		if prop.Key == key {
			return prop.FormatValue()
		}
	}

	return ""
}

// Has reports whether key is present.
func (p Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Identity returns the model, followed by "_" and the serial number if the device has one.
func (p Properties) Identity() string {
	return p.Value(KeySerial)
}

// With returns a copy of p with key appended.
func (p Properties) With(key string, value interface{}) Properties {
	out := make(Properties, len(p), len(p)+1)
	copy(out, p)
	out.add(key, value)

	return out
}

// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// Device string sanitizing, compatible with the character rules used for udev device properties.

package utils

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Characters allowed in a device node name in addition to ASCII letters and digits.
const devnodeChars = "#+-.:=@_"

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}

	return false
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func devnodeChar(c byte, extra string) bool {
	return isAlnum(c) || strings.IndexByte(devnodeChars, c) >= 0 ||
		(extra != "" && strings.IndexByte(extra, c) >= 0)
}

// CString returns b up to (excluding) the first NUL byte.
func CString(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}

	return b
}

// ReplaceWhitespace strips leading and trailing whitespace from s and replaces every inner run of
// whitespace with a single sep. Input is cut at the first NUL byte.
func ReplaceWhitespace(s []byte, sep string) string {
	fields := bytes.FieldsFunc(CString(s), func(r rune) bool {
		return r < utf8.RuneSelf && isSpace(byte(r))
	})

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}

	return strings.Join(parts, sep)
}

// ReplaceChars replaces every byte of s that is not safe in a device property with '_'. Letters,
// digits, "#+-.:=@_", bytes listed in allowed, "\x" escape prefixes and valid multi-byte UTF-8
// sequences are kept.
func ReplaceChars(s string, allowed string) string {
	b := []byte(s)

	for i := 0; i < len(b); {
		if devnodeChar(b[i], allowed) {
			i++
			continue
		}

		if b[i] == '\\' && i+1 < len(b) && b[i+1] == 'x' {
			i += 2
			continue
		}

		if r, n := utf8.DecodeRune(b[i:]); r != utf8.RuneError && n > 1 {
			i += n
			continue
		}

		b[i] = '_'
		i++
	}

	return string(b)
}

// EncodeDevnodeName escapes every byte that is not safe in a device node name as \xNN, keeping
// valid multi-byte UTF-8 sequences. Input is cut at the first NUL byte.
func EncodeDevnodeName(s []byte) string {
	var sb strings.Builder

	s = CString(s)
	for i := 0; i < len(s); {
		if r, n := utf8.DecodeRune(s[i:]); r != utf8.RuneError && n > 1 {
			sb.Write(s[i : i+n])
			i += n
			continue
		}

		if s[i] == '\\' || !devnodeChar(s[i], "") {
			fmt.Fprintf(&sb, "\\x%02x", s[i])
		} else {
			sb.WriteByte(s[i])
		}
		i++
	}

	return sb.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}

// DecodeDevnodeName reverses EncodeDevnodeName, replacing every \xNN escape with its byte.
func DecodeDevnodeName(s string) string {
	b := make([]byte, 0, len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			hi, ok1 := unhex(s[i+2])
			lo, ok2 := unhex(s[i+3])
			if ok1 && ok2 {
				b = append(b, hi<<4|lo)
				i += 3
				continue
			}
		}

		b = append(b, s[i])
	}

	return string(b)
}

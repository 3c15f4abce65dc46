// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package scsi

import (
	"bytes"
	"fmt"
)

// InquiryData is the standard INQUIRY response, SPC-4 section 6.4.2.
type InquiryData struct {
	PeripheralQualifier uint8
	PeripheralType      uint8
	VendorIdent         [8]byte
	ProductIdent        [16]byte
	ProductRev          [4]byte
}

// Vendor returns the T10 vendor identification with padding removed.
func (d InquiryData) Vendor() string {
	return string(bytes.TrimSpace(d.VendorIdent[:]))
}

// Product returns the product identification with padding removed.
func (d InquiryData) Product() string {
	return string(bytes.TrimSpace(d.ProductIdent[:]))
}

func (d InquiryData) String() string {
	return fmt.Sprintf("type=0x%02x vendor=%q product=%q rev=%q",
		d.PeripheralType, d.Vendor(), d.Product(), bytes.TrimSpace(d.ProductRev[:]))
}

// ParseInquiry decodes a standard INQUIRY response of at least INQ_REPLY_LEN bytes.
func ParseInquiry(buf []byte) (InquiryData, error) {
	var d InquiryData

	if len(buf) < INQ_REPLY_LEN {
		return d, fmt.Errorf("short INQUIRY response: %d bytes", len(buf))
	}

	d.PeripheralQualifier = buf[0] >> 5
	d.PeripheralType = buf[0] & 0x1f
	copy(d.VendorIdent[:], buf[8:16])
	copy(d.ProductIdent[:], buf[16:32])
	copy(d.ProductRev[:], buf[32:36])

	return d, nil
}

// Inquiry sends a standard INQUIRY command. The command only succeeds if the transport reports
// good device, host and driver status.
func Inquiry(t Transport) (InquiryData, error) {
	cdb := InquiryCDB(INQ_REPLY_LEN)
	cmd := NewCommand(cdb[:], INQ_REPLY_LEN)

	st, err := t.Execute(cmd)
	if err != nil {
		return InquiryData{}, err
	}

	if !st.OK() {
		return InquiryData{}, NewSgioError(st, cmd.Sense)
	}

	return ParseInquiry(cmd.Data)
}

// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package scsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func inquiryResponse(pdt byte) []byte {
	buf := make([]byte, INQ_REPLY_LEN)
	buf[0] = pdt
	copy(buf[8:], "ATA     ")
	copy(buf[16:], "WDC WD10EZEX-08W")
	copy(buf[32:], "1A01")

	return buf
}

func TestInquiryCDB(t *testing.T) {
	assert.Equal(t, CDB6{0x12, 0, 0, 0, 36, 0}, InquiryCDB(INQ_REPLY_LEN))
	assert.Equal(t, CDB6{0x12, 0, 0, 0x01, 0x00, 0}, InquiryCDB(256))
}

func TestInquiry(t *testing.T) {
	assert := assert.New(t)

	ft := &fakeTransport{data: inquiryResponse(0x00)}
	inq, err := Inquiry(ft)

	assert.NoError(err)
	assert.Equal(uint8(TypeDirectAccess), inq.PeripheralType)
	assert.Equal("ATA", inq.Vendor())
	assert.Equal("WDC WD10EZEX-08W", inq.Product())
	assert.Equal([]byte{0x12, 0, 0, 0, 36, 0}, ft.cdbs[0])
}

func TestInquiryPeripheralQualifier(t *testing.T) {
	inq, err := Inquiry(&fakeTransport{data: inquiryResponse(0x25)})

	assert.NoError(t, err)
	assert.Equal(t, uint8(1), inq.PeripheralQualifier)
	assert.Equal(t, uint8(TypeCDROM), inq.PeripheralType)
}

func TestInquiryBadStatus(t *testing.T) {
	assert := assert.New(t)

	for _, st := range []Status{{Device: 2}, {Transport: 7}, {Driver: 8}} {
		_, err := Inquiry(&fakeTransport{status: st, data: inquiryResponse(0)})

		var se *SgioError
		assert.ErrorAs(err, &se)
	}
}

func TestParseInquiryShort(t *testing.T) {
	_, err := ParseInquiry(make([]byte, 10))
	assert.Error(t, err)
}

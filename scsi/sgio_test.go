// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package scsi

import (
	"errors"
	"math"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

type fakeTransport struct {
	status Status
	err    error
	data   []byte
	sense  []byte
	calls  int
	cdbs   [][]byte
}

func (f *fakeTransport) Execute(cmd *Command) (Status, error) {
	f.calls++
	f.cdbs = append(f.cdbs, append([]byte(nil), cmd.CDB...))

	if f.err != nil {
		return Status{}, f.err
	}

	copy(cmd.Data, f.data)
	copy(cmd.Sense, f.sense)

	return f.status, nil
}

func TestStructSizes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uintptr(160), unsafe.Sizeof(sgIoV4{}))

	if unsafe.Sizeof(uintptr(0)) == 8 {
		assert.Equal(uintptr(88), unsafe.Sizeof(sgIoHdr{}))
	}
}

func TestFallbackOnEINVAL(t *testing.T) {
	assert := assert.New(t)

	v4 := &fakeTransport{err: &TransportError{Interface: "v4", Err: unix.EINVAL}}
	v3 := &fakeTransport{data: []byte{0xaa}}

	cmd := NewCommand([]byte{SCSI_INQUIRY, 0, 0, 0, INQ_REPLY_LEN, 0}, INQ_REPLY_LEN)
	st, err := WithFallback(v4, v3).Execute(cmd)

	assert.NoError(err)
	assert.True(st.OK())
	assert.Equal(1, v4.calls)
	assert.Equal(1, v3.calls)
	assert.Equal(byte(0xaa), cmd.Data[0])
	assert.Equal(v4.cdbs[0], v3.cdbs[0])
}

func TestNoFallbackOnOtherErrors(t *testing.T) {
	assert := assert.New(t)

	for _, errno := range []unix.Errno{unix.EPERM, unix.EIO, unix.ENOTTY} {
		v4 := &fakeTransport{err: &TransportError{Interface: "v4", Err: errno}}
		v3 := &fakeTransport{}

		_, err := WithFallback(v4, v3).Execute(NewCommand([]byte{0}, 0))

		assert.True(errors.Is(err, errno))
		assert.Equal(0, v3.calls, "secondary must not run for %v", errno)
	}
}

func TestFallbackErrorFromSecondary(t *testing.T) {
	v4 := &fakeTransport{err: &TransportError{Interface: "v4", Err: unix.EINVAL}}
	v3 := &fakeTransport{err: &TransportError{Interface: "v3", Err: unix.EIO}}

	_, err := WithFallback(v4, v3).Execute(NewCommand([]byte{0}, 0))

	var te *TransportError
	if assert.ErrorAs(t, err, &te) {
		assert.Equal(t, "v3", te.Interface)
		assert.ErrorIs(t, err, unix.EIO)
	}
}

func TestNewTransportTimeout(t *testing.T) {
	tr := NewTransport(3, 0).(*fallbackTransport)

	assert.Equal(t, uint32(DEFAULT_TIMEOUT), tr.primary.(*SGv4).Timeout)
	assert.Equal(t, uint32(DEFAULT_TIMEOUT), tr.secondary.(*SGv3).Timeout)
}

func TestTimeoutMillis(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint32(DEFAULT_TIMEOUT), timeoutMillis(0))
	assert.Equal(uint32(DEFAULT_TIMEOUT), timeoutMillis(-time.Second))
	assert.Equal(uint32(5000), timeoutMillis(5*time.Second))

	// 50 days does not fit in 32 bits of milliseconds and must not wrap
	assert.Equal(uint32(math.MaxUint32), timeoutMillis(50*24*time.Hour))

	tr := NewTransport(3, 50*24*time.Hour).(*fallbackTransport)
	assert.Equal(uint32(math.MaxUint32), tr.primary.(*SGv4).Timeout)
}

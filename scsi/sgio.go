// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

// SCSI generic IO functions.

package scsi

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/dswarbrick/ataid/ioctl"
)

const (
	SG_DXFER_NONE        = -1
	SG_DXFER_TO_DEV      = -2
	SG_DXFER_FROM_DEV    = -3
	SG_DXFER_TO_FROM_DEV = -4

	SG_IO = 0x2285

	// <linux/bsg.h>
	BSG_PROTOCOL_SCSI         = 0
	BSG_SUB_PROTOCOL_SCSI_CMD = 0

	// Timeout in milliseconds
	DEFAULT_TIMEOUT = 30000
)

// SCSI generic ioctl header, defined as sg_io_hdr_t in <scsi/sg.h>
type sgIoHdr struct {
	interface_id    int32   // 'S' for SCSI generic (required)
	dxfer_direction int32   // data transfer direction
	cmd_len         uint8   // SCSI command length (<= 16 bytes)
	mx_sb_len       uint8   // max length to write to sbp
	iovec_count     uint16  // 0 implies no scatter gather
	dxfer_len       uint32  // byte count of data transfer
	dxferp          uintptr // points to data transfer memory or scatter gather list
	cmdp            uintptr // points to command to perform
	sbp             uintptr // points to sense_buffer memory
	timeout         uint32  // MAX_UINT -> no timeout (unit: millisec)
	flags           uint32  // 0 -> default, see SG_FLAG...
	pack_id         int32   // unused internally (normally)
	usr_ptr         uintptr // unused internally
	status          uint8   // SCSI status
	masked_status   uint8   // shifted, masked scsi status
	msg_status      uint8   // messaging level data (optional)
	sb_len_wr       uint8   // byte count actually written to sbp
	host_status     uint16  // errors from host adapter
	driver_status   uint16  // errors from software driver
	resid           int32   // dxfer_len - actual_transferred
	duration        uint32  // time taken by cmd (unit: millisec)
	info            uint32  // auxiliary information
}

// Block SCSI generic ioctl header, defined as struct sg_io_v4 in <linux/bsg.h>
type sgIoV4 struct {
	guard            int32  // 'Q' to differentiate from v3
	protocol         uint32 // 0 -> SCSI
	subprotocol      uint32 // 0 -> SCSI command
	request_len      uint32
	request          uint64 // points to cdb
	request_tag      uint64
	request_attr     uint32
	request_priority uint32
	request_extra    uint32
	max_response_len uint32
	response         uint64 // points to sense buffer
	dout_iovec_count uint32
	dout_xfer_len    uint32
	din_iovec_count  uint32
	din_xfer_len     uint32
	dout_xferp       uint64
	din_xferp        uint64
	timeout          uint32 // unit: millisec
	flags            uint32
	usr_ptr          uint64
	spare_in         uint32
	driver_status    uint32 // 0 -> ok
	transport_status uint32 // 0 -> ok
	device_status    uint32 // SCSI status
	retry_delay      uint32
	info             uint32
	duration         uint32
	response_len     uint32
	din_resid        int32
	dout_resid       int32
	generated_tag    uint64
	spare_out        uint32
	padding          uint32
} // 160 bytes

// Command is a single SCSI command with an optional data-in phase.
type Command struct {
	CDB   []byte
	Data  []byte // filled by the device
	Sense []byte // filled by the transport, SENSE_BUF_LEN bytes
}

// NewCommand allocates the data and sense buffers for a data-in command.
func NewCommand(cdb []byte, dataLen int) *Command {
	return &Command{
		CDB:   cdb,
		Data:  make([]byte, dataLen),
		Sense: make([]byte, SENSE_BUF_LEN),
	}
}

// Status holds the completion status fields reported by the SG_IO ioctl. A successful ioctl does
// not imply that the command succeeded at the device.
type Status struct {
	Device    uint32 // SCSI status
	Transport uint32 // host adapter status
	Driver    uint32
}

// OK reports whether all status fields indicate success.
func (s Status) OK() bool {
	return s.Device == 0 && s.Transport == 0 && s.Driver == 0
}

// Transport executes SCSI commands against a device.
type Transport interface {
	Execute(cmd *Command) (Status, error)
}

// TransportError is returned when the SG_IO ioctl itself fails.
type TransportError struct {
	Interface string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("SG_IO %s: %v", e.Interface, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// SgioError is returned when the ioctl succeeded but the command did not.
type SgioError struct {
	ScsiStatus   uint8
	HostStatus   uint16
	DriverStatus uint16
	Sense        [SENSE_BUF_LEN]byte
}

// NewSgioError builds an SgioError from a transport status and sense buffer.
func NewSgioError(st Status, sense []byte) *SgioError {
	e := &SgioError{
		ScsiStatus:   uint8(st.Device),
		HostStatus:   uint16(st.Transport),
		DriverStatus: uint16(st.Driver),
	}
	copy(e.Sense[:], sense)

	return e
}

func (e *SgioError) Error() string {
	return fmt.Sprintf("SCSI status: %#02x, host status: %#02x, driver status: %#02x, sense: % x",
		e.ScsiStatus, e.HostStatus, e.DriverStatus, e.Sense[:14])
}

// SGv3 issues commands using the sg_io_hdr interface.
type SGv3 struct {
	Fd      uintptr
	Timeout uint32 // milliseconds
}

func (t *SGv3) Execute(cmd *Command) (Status, error) {
	hdr := sgIoHdr{
		interface_id:    'S',
		dxfer_direction: SG_DXFER_FROM_DEV,
		timeout:         t.Timeout,
		cmd_len:         uint8(len(cmd.CDB)),
		mx_sb_len:       uint8(len(cmd.Sense)),
		dxfer_len:       uint32(len(cmd.Data)),
		cmdp:            uintptr(unsafe.Pointer(&cmd.CDB[0])),
		sbp:             uintptr(unsafe.Pointer(&cmd.Sense[0])),
	}

	if len(cmd.Data) > 0 {
		hdr.dxferp = uintptr(unsafe.Pointer(&cmd.Data[0]))
	} else {
		hdr.dxfer_direction = SG_DXFER_NONE
	}

	err := ioctl.Ioctl(t.Fd, SG_IO, uintptr(unsafe.Pointer(&hdr)))
	runtime.KeepAlive(cmd)
	if err != nil {
		return Status{}, &TransportError{Interface: "v3", Err: err}
	}

	return Status{
		Device:    uint32(hdr.status),
		Transport: uint32(hdr.host_status),
		Driver:    uint32(hdr.driver_status),
	}, nil
}

// SGv4 issues commands using the block SCSI generic (bsg) sg_io_v4 interface.
type SGv4 struct {
	Fd      uintptr
	Timeout uint32 // milliseconds
}

func (t *SGv4) Execute(cmd *Command) (Status, error) {
	hdr := sgIoV4{
		guard:            'Q',
		protocol:         BSG_PROTOCOL_SCSI,
		subprotocol:      BSG_SUB_PROTOCOL_SCSI_CMD,
		request_len:      uint32(len(cmd.CDB)),
		request:          uint64(uintptr(unsafe.Pointer(&cmd.CDB[0]))),
		max_response_len: uint32(len(cmd.Sense)),
		response:         uint64(uintptr(unsafe.Pointer(&cmd.Sense[0]))),
		din_xfer_len:     uint32(len(cmd.Data)),
		timeout:          t.Timeout,
	}

	if len(cmd.Data) > 0 {
		hdr.din_xferp = uint64(uintptr(unsafe.Pointer(&cmd.Data[0])))
	}

	err := ioctl.Ioctl(t.Fd, SG_IO, uintptr(unsafe.Pointer(&hdr)))
	runtime.KeepAlive(cmd)
	if err != nil {
		return Status{}, &TransportError{Interface: "v4", Err: err}
	}

	return Status{
		Device:    hdr.device_status,
		Transport: hdr.transport_status,
		Driver:    hdr.driver_status,
	}, nil
}

type fallbackTransport struct {
	primary   Transport
	secondary Transport
}

// WithFallback returns a Transport that runs primary and, only if primary reports EINVAL (the
// driver does not understand that interface version), runs secondary with the same buffers.
// Any other primary failure is returned as is.
func WithFallback(primary, secondary Transport) Transport {
	return &fallbackTransport{primary: primary, secondary: secondary}
}

func (t *fallbackTransport) Execute(cmd *Command) (Status, error) {
	st, err := t.primary.Execute(cmd)
	if err != nil && errors.Is(err, unix.EINVAL) {
		return t.secondary.Execute(cmd)
	}

	return st, err
}

// timeoutMillis converts timeout to the SG_IO millisecond field. Values that do not fit are
// clamped, zero or negative values select DEFAULT_TIMEOUT.
func timeoutMillis(timeout time.Duration) uint32 {
	ms := timeout.Milliseconds()

	switch {
	case ms <= 0:
		return DEFAULT_TIMEOUT
	case ms > math.MaxUint32:
		return math.MaxUint32
	}

	return uint32(ms)
}

// NewTransport returns the SG_IO transport for fd, preferring sg_io_v4 over sg_io_hdr.
func NewTransport(fd uintptr, timeout time.Duration) Transport {
	ms := timeoutMillis(timeout)

	return WithFallback(&SGv4{Fd: fd, Timeout: ms}, &SGv3{Fd: fd, Timeout: ms})
}

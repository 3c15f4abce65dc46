// Copyright 2017-18 Daniel Swarbrick. All rights reserved.
// Use of this source code is governed by a GPL license that can be found in the LICENSE file.

package ataid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrEmptyIdentify is returned when the device answered IDENTIFY with 512 zero bytes.
var ErrEmptyIdentify = errors.New("IDENTIFY data is all zero")

// DeviceTypeError is returned when INQUIRY reports a peripheral device type that must not be sent
// an ATA PASS-THROUGH command.
type DeviceTypeError struct {
	Type uint8
}

func (e *DeviceTypeError) Error() string {
	return fmt.Sprintf("unsupported peripheral device type 0x%02x", e.Type)
}

// NoIdentityError is returned when neither ATA PASS-THROUGH nor the legacy identity ioctl
// produced an identity. Causes holds the failure of each method.
type NoIdentityError struct {
	Causes *multierror.Error
}

func (e *NoIdentityError) Error() string {
	return "cannot identify device: " + e.Causes.Error()
}

func (e *NoIdentityError) Unwrap() error {
	return e.Causes
}

func newNoIdentityError(errs ...error) *NoIdentityError {
	merr := multierror.Append(nil, errs...)
	merr.ErrorFormat = func(es []error) string {
		msgs := make([]string, len(es))
		for i, err := range es {
			msgs[i] = err.Error()
		}
		return strings.Join(msgs, "; ")
	}

	return &NoIdentityError{Causes: merr}
}

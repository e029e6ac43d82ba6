// go-lfrfid
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-lfrfid.
//
// go-lfrfid is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-lfrfid is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-lfrfid; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package lfrfid

import (
	"errors"
	"fmt"
)

// Session errors
var (
	ErrSessionActive    = errors.New("antenna session already active")
	ErrSessionNotActive = errors.New("antenna session not active")
	ErrNoAntenna        = errors.New("no antenna configured")
)

// Antenna errors
var (
	ErrCarrierConfig = errors.New("carrier configuration failed")
	ErrCarrierOutput = errors.New("carrier output failed")
	ErrPullRelease   = errors.New("pull release failed")
	ErrBridgeNACK    = errors.New("bridge rejected frame")
	ErrBridgeTimeout = errors.New("bridge did not acknowledge in time")
	ErrBridgeFrame   = errors.New("malformed bridge frame")
)

// Configuration errors
var (
	ErrInvalidProfile = errors.New("invalid timing profile")
	ErrUnknownFamily  = errors.New("unknown tag family")
)

// AntennaError wraps a failure reported by an Antenna implementation.
type AntennaError struct {
	Err     error
	Op      string
	Antenna AntennaType
}

func (e *AntennaError) Error() string {
	return fmt.Sprintf("%s antenna %s: %v", e.Antenna, e.Op, e.Err)
}

func (e *AntennaError) Unwrap() error {
	return e.Err
}

// NewAntennaError creates an AntennaError.
func NewAntennaError(op string, antenna AntennaType, err error) *AntennaError {
	return &AntennaError{Op: op, Antenna: antenna, Err: err}
}

// PreconditionError is the panic value raised when a caller violates an
// encoding contract (page, block address, profile). Continuing would
// silently miscode the tag.
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("lfrfid: %s: %s", e.Op, e.Msg)
}

// must panics with a PreconditionError when cond is false.
func must(cond bool, op, format string, args ...any) {
	if !cond {
		panic(&PreconditionError{Op: op, Msg: fmt.Sprintf(format, args...)})
	}
}

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

// Encoder turns T55xx write commands into carrier gaps and holds on an
// Antenna. Every method busy-waits for the full length of what it emits
// and assumes the caller already holds a critical section with the
// carrier running.
type Encoder struct {
	antenna Antenna
	profile *TimingProfile
}

// NewEncoder creates an Encoder. It panics if either argument is nil or
// the profile is invalid.
func NewEncoder(antenna Antenna, profile *TimingProfile) *Encoder {
	must(antenna != nil, "NewEncoder", "nil antenna")
	must(profile != nil, "NewEncoder", "nil profile")
	if err := profile.Validate(); err != nil {
		must(false, "NewEncoder", "%v", err)
	}
	return &Encoder{antenna: antenna, profile: profile}
}

// Profile returns the timing profile in use.
func (e *Encoder) Profile() TimingProfile {
	return *e.profile
}

func (e *Encoder) hold(us uint32) {
	e.antenna.DelayMicroseconds(us)
}

// gap drops the field for us microseconds.
func (e *Encoder) gap(us uint32) {
	e.antenna.StopCarrier()
	e.antenna.DelayMicroseconds(us)
	e.antenna.StartCarrier()
}

// EncodeBit holds the carrier for the bit period of value, then opens a
// write gap.
func (e *Encoder) EncodeBit(value bool) {
	if value {
		e.hold(e.profile.Data1)
	} else {
		e.hold(e.profile.Data0)
	}
	e.gap(e.profile.WriteGap)
}

// StartGap emits the start-of-frame field dropout.
func (e *Encoder) StartGap() {
	e.gap(e.profile.StartGap)
}

// Opcode emits the 2-bit write opcode for page: "10" for page 0, "11" for
// page 1. Any other page panics.
func (e *Encoder) Opcode(page uint8) {
	must(page <= 1, "Opcode", "page must be 0 or 1, got %d", page)
	e.EncodeBit(true)
	e.EncodeBit(page == 1)
}

// Reset emits a start gap followed by bits 1,0, flushing the tag's
// command decoder.
func (e *Encoder) Reset() {
	e.StartGap()
	e.EncodeBit(true)
	e.EncodeBit(false)
}

// EncodeWord emits the low n bits of v, most significant first.
func (e *Encoder) EncodeWord(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		e.EncodeBit((v>>uint(i))&1 == 1)
	}
}

// WriteBlock emits a complete block write ending in a reset frame.
func (e *Encoder) WriteBlock(req WriteRequest) {
	req.check()

	e.hold(e.profile.WaitTime)
	e.StartGap()
	e.Opcode(req.Page)
	if req.UsePassword {
		e.EncodeWord(req.Password, 32)
	}
	e.EncodeBit(req.Lock)
	e.EncodeWord(req.Data, 32)
	e.EncodeWord(uint32(req.Block), 3)

	// EEPROM programming time
	e.hold(e.profile.Program)
	e.hold(e.profile.WaitTime)
	e.Reset()
}

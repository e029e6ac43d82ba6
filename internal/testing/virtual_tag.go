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

// Package testing provides a simulated T5577 tag for exercising write paths
// end to end.
package testing

import (
	"errors"
	"fmt"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
)

// Page sizes of a T5577.
const (
	Page0Blocks = 8
	Page1Blocks = 4

	// Page1Writable is the only user-writable page 1 block. Blocks 1 and 2
	// hold factory traceability data.
	Page1Writable = 3
)

// VirtualT5577 is a simulated T5577. It decodes the field waveform a write
// session produced and applies the commands the way the chip would,
// silently ignoring what the chip ignores.
type VirtualT5577 struct {
	Page0   [Page0Blocks]uint32
	Page1   [Page1Blocks]uint32
	Locked  [Page0Blocks]bool
	Present bool // Whether the tag is in the field

	Writes   int // accepted block writes
	Rejected int // writes ignored for lock or password reasons
	Resets   int
}

// NewVirtualT5577 creates a present tag with factory defaults.
func NewVirtualT5577() *VirtualT5577 {
	tag := &VirtualT5577{Present: true}
	// Factory configuration: Manchester RF/32, max block 7, sequence terminator
	tag.Page0[0] = 0x000880E8
	return tag
}

// PasswordMode reports whether block 0 enables password protection.
func (t *VirtualT5577) PasswordMode() bool {
	return t.Page0[0]&lfrfid.T5577PasswordMode != 0
}

// Password returns the stored password (block 7).
func (t *VirtualT5577) Password() uint32 {
	return t.Page0[7]
}

// Apply feeds a recorded waveform to the tag.
func (t *VirtualT5577) Apply(wave lfrfid.Waveform, profile *lfrfid.TimingProfile) error {
	if !t.Present {
		return nil
	}
	var errs []error
	for _, f := range wave.Frames(profile) {
		req, reset, err := lfrfid.DecodeFrame(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if reset {
			t.Resets++
			continue
		}
		t.write(req)
	}
	return errors.Join(errs...)
}

func (t *VirtualT5577) write(req lfrfid.WriteRequest) {
	if t.PasswordMode() && (!req.UsePassword || req.Password != t.Password()) {
		t.Rejected++
		return
	}
	switch req.Page {
	case 0:
		if t.Locked[req.Block] {
			t.Rejected++
			return
		}
		t.Page0[req.Block] = req.Data
		t.Locked[req.Block] = req.Lock
	case 1:
		if req.Block != Page1Writable {
			t.Rejected++
			return
		}
		t.Page1[req.Block] = req.Data
	}
	t.Writes++
}

// Block returns a page 0 block.
func (t *VirtualT5577) Block(i int) uint32 {
	return t.Page0[i]
}

// String returns a dump of page 0.
func (t *VirtualT5577) String() string {
	s := ""
	for i, b := range t.Page0 {
		lock := ""
		if t.Locked[i] {
			lock = " L"
		}
		s += fmt.Sprintf("%d: %08X%s\n", i, b, lock)
	}
	return s
}

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
	"strings"
)

// Segment is an interval during which the carrier was either on or off.
type Segment struct {
	Duration uint32 // microseconds
	Carrier  bool
}

// Waveform is a sequence of carrier segments. Adjacent segments always
// differ in carrier state.
type Waveform []Segment

// Total returns the summed duration in microseconds.
func (w Waveform) Total() uint64 {
	var total uint64
	for _, s := range w {
		total += uint64(s.Duration)
	}
	return total
}

// Gaps returns the number of carrier-off segments.
func (w Waveform) Gaps() int {
	n := 0
	for _, s := range w {
		if !s.Carrier {
			n++
		}
	}
	return n
}

// Frames splits the waveform at start gaps and decodes the bits of each
// frame. A bit is the carrier hold preceding a write gap; holds longer than
// the midpoint of data_0 and data_1 are ones. A write gap directly followed
// by a start gap shows up as a single long dropout and closes the frame
// after its bit.
func (w Waveform) Frames(p *TimingProfile) []Frame {
	must(p != nil, "Frames", "nil profile")
	gapThreshold := (p.StartGap + p.WriteGap) / 2
	mergedThreshold := p.WriteGap + gapThreshold
	bitThreshold := (p.Data0 + p.Data1) / 2

	var frames []Frame
	var cur Frame
	inFrame := false
	for i, seg := range w {
		if seg.Carrier {
			continue
		}
		bitBefore := i > 0 && w[i-1].Carrier
		if seg.Duration < gapThreshold || seg.Duration >= mergedThreshold {
			if inFrame && bitBefore {
				cur = append(cur, w[i-1].Duration >= bitThreshold)
			}
			if seg.Duration < gapThreshold {
				continue
			}
		}
		if inFrame {
			frames = append(frames, cur)
		}
		cur = Frame{}
		inFrame = true
	}
	if inFrame {
		frames = append(frames, cur)
	}
	return frames
}

// Frame is the bit sequence between two start gaps.
type Frame []bool

func (f Frame) String() string {
	var sb strings.Builder
	for _, b := range f {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Uint reads n bits starting at off as a big-endian integer.
func (f Frame) Uint(off, n int) uint32 {
	var v uint32
	for _, b := range f[off : off+n] {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// Frame lengths on the wire.
const (
	ResetFrameBits         = 2
	WriteFrameBits         = 2 + 1 + 32 + 3
	PasswordWriteFrameBits = WriteFrameBits + 32
)

// ErrUnknownFrame is returned by DecodeFrame for bit sequences that are not
// a reset or block write.
var ErrUnknownFrame = errors.New("unrecognized frame")

// DecodeFrame interprets a frame. It reports reset=true for a reset frame,
// otherwise the write request the frame carries.
func DecodeFrame(f Frame) (req WriteRequest, reset bool, err error) {
	switch len(f) {
	case ResetFrameBits:
		if f[0] && !f[1] {
			return WriteRequest{}, true, nil
		}
	case WriteFrameBits, PasswordWriteFrameBits:
		if !f[0] {
			break
		}
		req.Page = uint8(f.Uint(1, 1))
		off := 2
		if len(f) == PasswordWriteFrameBits {
			req.UsePassword = true
			req.Password = f.Uint(off, 32)
			off += 32
		}
		req.Lock = f[off]
		req.Data = f.Uint(off+1, 32)
		req.Block = uint8(f.Uint(off+33, 3))
		return req, false, nil
	}
	return WriteRequest{}, false, fmt.Errorf("%w: %d bits %s", ErrUnknownFrame, len(f), f)
}

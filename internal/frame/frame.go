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

package frame

import (
	"bytes"
	"errors"
	"fmt"
)

// Frame errors
var (
	ErrShortFrame       = errors.New("frame too short")
	ErrFrameCorrupted   = errors.New("frame corrupted")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrDataTooLarge     = errors.New("frame data too large")
)

// CalculateChecksum returns the byte sum of data modulo 256.
func CalculateChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// ValidateChecksum reports true when data does NOT sum to zero, meaning the
// frame should be NACKed.
func ValidateChecksum(data []byte) bool {
	return CalculateChecksum(data) != 0
}

// CalculateDataChecksum returns the DCS byte for a frame body.
func CalculateDataChecksum(tfi byte, data []byte) byte {
	return ^(tfi + CalculateChecksum(data)) + 1
}

// CalculateLengthChecksum returns the LCS byte for a normal frame length.
func CalculateLengthChecksum(length byte) byte {
	return ^length + 1
}

// Build encodes tfi and body into a frame. Bodies longer than
// MaxNormalDataLength-1 bytes use an extended frame.
func Build(tfi byte, body []byte) ([]byte, error) {
	dataLen := 1 + len(body)
	if dataLen > MaxExtendedDataLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, dataLen)
	}

	buf := make([]byte, 0, dataLen+10)
	buf = append(buf, Preamble, StartCode1, StartCode2)
	if dataLen <= MaxNormalDataLength {
		l := byte(dataLen)
		buf = append(buf, l, CalculateLengthChecksum(l))
	} else {
		hi, lo := byte(dataLen>>8), byte(dataLen)
		buf = append(buf, Extended, Extended, hi, lo, CalculateLengthChecksum(hi+lo))
	}
	buf = append(buf, tfi)
	buf = append(buf, body...)
	buf = append(buf, CalculateDataChecksum(tfi, body), Postamble)
	return buf, nil
}

// IsAck reports whether buf starts with an ACK frame.
func IsAck(buf []byte) bool {
	return bytes.HasPrefix(buf, AckFrame)
}

// IsNack reports whether buf starts with a NACK frame.
func IsNack(buf []byte) bool {
	return bytes.HasPrefix(buf, NackFrame)
}

// Parse decodes the first frame in buf. It returns the TFI, the body and the
// number of bytes consumed. ErrShortFrame means more input is needed.
func Parse(buf []byte) (tfi byte, body []byte, n int, err error) {
	start := bytes.Index(buf, []byte{StartCode1, StartCode2})
	if start < 0 {
		return 0, nil, 0, ErrShortFrame
	}
	p := start + 2
	if len(buf) < p+2 {
		return 0, nil, 0, ErrShortFrame
	}

	var dataLen int
	switch {
	case buf[p] == Extended && buf[p+1] == Extended:
		if len(buf) < p+5 {
			return 0, nil, 0, ErrShortFrame
		}
		hi, lo := buf[p+2], buf[p+3]
		if hi+lo+buf[p+4] != 0 {
			return 0, nil, 0, fmt.Errorf("%w: extended length checksum", ErrChecksumMismatch)
		}
		dataLen = int(hi)<<8 | int(lo)
		p += 5
	default:
		if buf[p]+buf[p+1] != 0 {
			return 0, nil, 0, fmt.Errorf("%w: length checksum", ErrChecksumMismatch)
		}
		dataLen = int(buf[p])
		p += 2
	}
	if dataLen == 0 {
		return 0, nil, 0, fmt.Errorf("%w: empty frame is not a data frame", ErrFrameCorrupted)
	}

	end := p + dataLen + 2
	if len(buf) < end {
		return 0, nil, 0, ErrShortFrame
	}
	if ValidateChecksum(buf[p : p+dataLen+1]) {
		return 0, nil, 0, fmt.Errorf("%w: data checksum", ErrChecksumMismatch)
	}
	if buf[end-1] != Postamble {
		return 0, nil, 0, fmt.Errorf("%w: missing postamble", ErrFrameCorrupted)
	}
	return buf[p], buf[p+1 : p+dataLen], end, nil
}

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

// Package frame provides framing and checksums for the host to replay
// bridge serial link. Frames follow the PN532 layout, with extended frames
// for payloads longer than 254 bytes.
package frame

// Frame direction constants - these indicate the direction of data flow
const (
	HostToBridge = 0xE4 // Commands from host to bridge
	BridgeToHost = 0xE5 // Responses from bridge to host
)

// Frame markers and control bytes
const (
	Preamble   = 0x00 // Frame preamble byte
	StartCode1 = 0x00 // Start code byte 1
	StartCode2 = 0xFF // Start code byte 2
	Postamble  = 0x00 // Frame postamble byte
	Extended   = 0xFF // LEN and LCS value announcing an extended frame
)

// Frame size limits
const (
	MaxNormalDataLength   = 254   // Largest LEN of a normal frame
	MaxExtendedDataLength = 65535 // Largest LENM:LENL of an extended frame
	MinFrameLength        = 6     // preamble + startcode + len + lcs + dcs/postamble
)

// ACK and NACK frames - these are used for flow control
var (
	AckFrame  = []byte{0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00}
	NackFrame = []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00}
)

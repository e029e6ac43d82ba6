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


/*
Package lfrfid provides a pure Go library for writing 125 kHz T5577/T55xx
RFID tags by modulating the reader's carrier field.

A T5577 is written by switching the carrier off for short gaps. The length
of the carrier-on interval between two gaps encodes a 0 or a 1, and the tag
samples these intervals with no clock of its own. Gap and bit durations are
expressed in field clocks (8 µs at 125 kHz) and collected in a TimingProfile.

Features:
  - Built-in timing profiles for T5577 and generic T55xx tags
  - Batch writes of up to 8 blocks inside a single critical section
  - Password mode, lock bit and page 1 writes
  - T5577 configuration block (block 0) builder and parser
  - Waveform recording and frame decoding for dry runs and tests
  - Antenna backends: host GPIO (periph.io) and a serial replay bridge

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-lfrfid"
	    "github.com/ZaparooProject/go-lfrfid/antenna/bridge"
	)

	ant, err := bridge.Open("/dev/ttyACM0")
	if err != nil {
	    log.Fatal(err)
	}
	defer ant.Close()

	writer, err := lfrfid.NewWriter(ant, lfrfid.WithFamily(lfrfid.FamilyT5577))
	if err != nil {
	    log.Fatal(err)
	}

	blocks := lfrfid.NewBlockSet(lfrfid.EM4100Config().Word(), 0xFF8A1234, 0x5678ABCD)
	if err := writer.WriteT5577(ctx, blocks); err != nil {
	    log.Fatal(err)
	}

Sessions:

Writer.Start claims the antenna, configures a 125 kHz carrier at 50% duty,
starts it and floats the pull line. The returned Session accepts any number
of batches until Stop turns the carrier off and releases the antenna. Only
one session may be active per Writer.

Timing:

Bit timing is hard real time. Jitter beyond roughly one field clock corrupts
the write. The GPIO backend pins the goroutine to its OS thread, disables
the garbage collector and requests SCHED_FIFO for the duration of each batch,
but a general-purpose kernel still gives no guarantee. The bridge backend
records the waveform on the host and replays it from a microcontroller, and
is the recommended backend. Always verify a write by reading the tag back.

Error Handling:

Programming errors such as a block address above 7 panic with a
*PreconditionError before anything is emitted. Session misuse and antenna
failures are returned as errors:

	if errors.Is(err, lfrfid.ErrSessionActive) {
	    // another session owns the antenna
	}

Thread Safety:

Writer and Session are safe for concurrent use. Batches on one session are
serialized.
*/
package lfrfid

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

//go:build linux

package gpio

import (
	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"golang.org/x/sys/unix"
)

const realtimePriority = 90

type schedState struct {
	prev *unix.SchedAttr
	err  error
}

// enterRealtime moves the calling thread to SCHED_FIFO. Without
// CAP_SYS_NICE this fails and the write runs at normal priority. Failures
// are reported by exitRealtime so nothing is logged mid-write.
func enterRealtime() schedState {
	prev, err := unix.SchedGetAttr(0, 0)
	if err != nil {
		return schedState{err: err}
	}
	attr := *prev
	attr.Policy = unix.SCHED_FIFO
	attr.Priority = realtimePriority
	if err := unix.SchedSetAttr(0, &attr, 0); err != nil {
		return schedState{err: err}
	}
	return schedState{prev: prev}
}

func exitRealtime(s schedState) {
	if s.err != nil {
		lfrfid.Warnf("SCHED_FIFO unavailable, timing was best effort: %v", s.err)
	}
	if s.prev == nil {
		return
	}
	if err := unix.SchedSetAttr(0, s.prev, 0); err != nil {
		lfrfid.Warnf("failed to restore scheduling policy: %v", err)
	}
}

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

import "fmt"

// T5577BlockCount is the number of 32-bit blocks on page 0 of a T5577.
const T5577BlockCount = 8

// MaxBlockAddress is the highest address the 3-bit block field can carry.
const MaxBlockAddress = 7

// WriteRequest describes one block write.
type WriteRequest struct {
	Data        uint32
	Password    uint32
	Page        uint8
	Block       uint8
	Lock        bool
	UsePassword bool
}

// String returns a human-readable representation of the request.
func (r WriteRequest) String() string {
	s := fmt.Sprintf("page %d block %d data %08X", r.Page, r.Block, r.Data)
	if r.Lock {
		s += " locked"
	}
	if r.UsePassword {
		s += " with password"
	}
	return s
}

// check panics if the request cannot be encoded.
func (r WriteRequest) check() {
	must(r.Page <= 1, "WriteRequest", "page must be 0 or 1, got %d", r.Page)
	must(r.Block <= MaxBlockAddress, "WriteRequest", "block must be 0-%d, got %d", MaxBlockAddress, r.Block)
}

// BlockSet is a batch of data words for consecutive blocks starting at 0.
// Blocks are written to page 0 with the lock bit cleared.
type BlockSet struct {
	Blocks []uint32
}

// NewBlockSet creates a BlockSet from data words for blocks 0..len-1.
func NewBlockSet(blocks ...uint32) BlockSet {
	return BlockSet{Blocks: append([]uint32(nil), blocks...)}
}

// Len returns the number of blocks in the set.
func (b BlockSet) Len() int {
	return len(b.Blocks)
}

// Requests expands the set into one WriteRequest per block. A non-nil
// password enables password mode on every request.
func (b BlockSet) Requests(password *uint32) []WriteRequest {
	must(len(b.Blocks) <= T5577BlockCount, "BlockSet", "at most %d blocks, got %d", T5577BlockCount, len(b.Blocks))
	reqs := make([]WriteRequest, len(b.Blocks))
	for i, data := range b.Blocks {
		reqs[i] = WriteRequest{Page: 0, Block: uint8(i), Data: data}
		if password != nil {
			reqs[i].Password = *password
			reqs[i].UsePassword = true
		}
	}
	return reqs
}

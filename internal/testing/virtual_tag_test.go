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

package testing

import (
	"context"
	"testing"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSession(t *testing.T, tag *VirtualT5577, fn func(*lfrfid.Session) error) {
	t.Helper()
	rec := lfrfid.NewRecorder()
	w, err := lfrfid.NewWriter(rec)
	require.NoError(t, err)
	s, err := w.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, fn(s))
	require.NoError(t, s.Stop())

	profile := w.Profile()
	require.NoError(t, tag.Apply(rec.Waveform(), &profile))
}

func TestVirtualT5577_BatchWrite(t *testing.T) {
	t.Parallel()
	tag := NewVirtualT5577()
	blocks := lfrfid.NewBlockSet(lfrfid.EM4100Config().Word(), 0xFF8A1234, 0x5678ABCD)

	writeSession(t, tag, func(s *lfrfid.Session) error {
		return s.WriteBatch(context.Background(), blocks)
	})

	assert.Equal(t, uint32(0x00148040), tag.Block(0))
	assert.Equal(t, uint32(0xFF8A1234), tag.Block(1))
	assert.Equal(t, uint32(0x5678ABCD), tag.Block(2))
	assert.Equal(t, 3, tag.Writes)
	assert.Equal(t, 4, tag.Resets, "one per block plus the trailing reset")
}

func TestVirtualT5577_Idempotent(t *testing.T) {
	t.Parallel()
	blocks := lfrfid.NewBlockSet(0x00148040, 0xDEADBEEF, 0xCAFEBABE)

	once := NewVirtualT5577()
	writeSession(t, once, func(s *lfrfid.Session) error {
		return s.WriteBatch(context.Background(), blocks)
	})

	twice := NewVirtualT5577()
	for i := 0; i < 2; i++ {
		writeSession(t, twice, func(s *lfrfid.Session) error {
			return s.WriteBatch(context.Background(), blocks)
		})
	}

	assert.Equal(t, once.Page0, twice.Page0)
	assert.Equal(t, once.Locked, twice.Locked)
}

func TestVirtualT5577_OnlyTargetBlockChanges(t *testing.T) {
	t.Parallel()
	tag := NewVirtualT5577()
	before := tag.Page0

	writeSession(t, tag, func(s *lfrfid.Session) error {
		return s.WriteBlock(context.Background(), lfrfid.WriteRequest{Block: 4, Data: 0x0BADF00D})
	})

	for i := range tag.Page0 {
		if i == 4 {
			assert.Equal(t, uint32(0x0BADF00D), tag.Block(i))
			continue
		}
		assert.Equal(t, before[i], tag.Block(i), "block %d", i)
	}
}

func TestVirtualT5577_PasswordProtection(t *testing.T) {
	t.Parallel()
	const password = 0x51243648
	tag := NewVirtualT5577()
	tag.Page0[0] |= lfrfid.T5577PasswordMode
	tag.Page0[7] = password

	writeSession(t, tag, func(s *lfrfid.Session) error {
		return s.WriteBlock(context.Background(), lfrfid.WriteRequest{Block: 1, Data: 1})
	})
	assert.Zero(t, tag.Block(1), "write without password is ignored")
	assert.Equal(t, 1, tag.Rejected)

	writeSession(t, tag, func(s *lfrfid.Session) error {
		return s.WriteBlock(context.Background(), lfrfid.WriteRequest{Block: 1, Data: 1, Password: 0x1, UsePassword: true})
	})
	assert.Zero(t, tag.Block(1), "wrong password is ignored")

	writeSession(t, tag, func(s *lfrfid.Session) error {
		return s.WriteBatchWithPassword(context.Background(), lfrfid.NewBlockSet(tag.Block(0), 2, 3), password)
	})
	assert.Equal(t, uint32(2), tag.Block(1))
	assert.Equal(t, uint32(3), tag.Block(2))
}

func TestVirtualT5577_LockBit(t *testing.T) {
	t.Parallel()
	tag := NewVirtualT5577()

	writeSession(t, tag, func(s *lfrfid.Session) error {
		return s.WriteBlock(context.Background(), lfrfid.WriteRequest{Block: 3, Data: 0xAAAA, Lock: true})
	})
	writeSession(t, tag, func(s *lfrfid.Session) error {
		return s.WriteBlock(context.Background(), lfrfid.WriteRequest{Block: 3, Data: 0xBBBB})
	})

	assert.Equal(t, uint32(0xAAAA), tag.Block(3))
	assert.True(t, tag.Locked[3])
	assert.Contains(t, tag.String(), "3: 0000AAAA L")
}

func TestVirtualT5577_Page1(t *testing.T) {
	t.Parallel()
	tag := NewVirtualT5577()

	writeSession(t, tag, func(s *lfrfid.Session) error {
		for _, block := range []uint8{1, 2, 3, 5} {
			req := lfrfid.WriteRequest{Page: 1, Block: block, Data: 0xE0150A48}
			if err := s.WriteBlock(context.Background(), req); err != nil {
				return err
			}
		}
		return nil
	})

	assert.Equal(t, uint32(0xE0150A48), tag.Page1[3])
	assert.Zero(t, tag.Page1[1], "traceability block is read-only")
	assert.Zero(t, tag.Page1[2], "traceability block is read-only")
	assert.Equal(t, 1, tag.Writes)
	assert.Equal(t, 3, tag.Rejected)
}

func TestVirtualT5577_Absent(t *testing.T) {
	t.Parallel()
	tag := NewVirtualT5577()
	tag.Present = false

	writeSession(t, tag, func(s *lfrfid.Session) error {
		return s.WriteBatch(context.Background(), lfrfid.NewBlockSet(0, 1))
	})
	assert.Zero(t, tag.Writes)
	assert.Equal(t, uint32(0x000880E8), tag.Block(0))
}

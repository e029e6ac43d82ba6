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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyProfiles(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		family Family
	}{
		{name: "t5577", family: FamilyT5577},
		{name: "t55xx", family: FamilyT55xx},
		{name: "upper case", family: "T5577"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := ProfileFor(tt.family)
			require.NoError(t, err)
			require.NoError(t, p.Validate())
			assert.Equal(t, uint32(3200), p.WaitTime)
			assert.Equal(t, uint32(240), p.StartGap)
			assert.Equal(t, uint32(144), p.WriteGap)
			assert.Equal(t, uint32(192), p.Data0)
			assert.Equal(t, uint32(448), p.Data1)
			assert.Equal(t, uint32(5600), p.Program)
		})
	}
}

func TestProfileFor_Unknown(t *testing.T) {
	t.Parallel()
	_, err := ProfileFor("em4305")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestTimingProfile_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mutate  func(p *TimingProfile)
		name    string
		wantMsg string
	}{
		{name: "zero wait", mutate: func(p *TimingProfile) { p.WaitTime = 0 }, wantMsg: "wait_time"},
		{name: "zero start gap", mutate: func(p *TimingProfile) { p.StartGap = 0 }, wantMsg: "start_gap"},
		{name: "zero write gap", mutate: func(p *TimingProfile) { p.WriteGap = 0 }, wantMsg: "write_gap"},
		{name: "zero data 0", mutate: func(p *TimingProfile) { p.Data0 = 0 }, wantMsg: "data_0"},
		{name: "zero program", mutate: func(p *TimingProfile) { p.Program = 0 }, wantMsg: "program"},
		{name: "inverted data", mutate: func(p *TimingProfile) { p.Data1 = p.Data0 }, wantMsg: "data_1"},
		{name: "start gap not longer than write gap", mutate: func(p *TimingProfile) { p.StartGap = p.WriteGap }, wantMsg: "start_gap"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := T5577Profile()
			tt.mutate(&p)
			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidProfile)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	var nilProfile *TimingProfile
	assert.ErrorIs(t, nilProfile.Validate(), ErrInvalidProfile)
}

func TestNewProfileFromFieldClocks(t *testing.T) {
	t.Parallel()
	p := NewProfileFromFieldClocks(FamilyT55xx, 400, 30, 18, 24, 56, 700)
	assert.Equal(t, T55xxProfile(), p)
}

func TestTimingProfile_String(t *testing.T) {
	t.Parallel()
	p := T5577Profile()
	assert.Equal(t, "t5577(wait=3200us start=240us gap=144us d0=192us d1=448us prog=5600us)", p.String())
}

func TestBlockSet_Requests(t *testing.T) {
	t.Parallel()
	pw := uint32(0x1234)
	reqs := NewBlockSet(10, 20).Requests(&pw)
	require.Len(t, reqs, 2)
	assert.Equal(t, WriteRequest{Block: 1, Data: 20, Password: 0x1234, UsePassword: true}, reqs[1])
	assert.Empty(t, BlockSet{}.Requests(nil))
	assert.Panics(t, func() { BlockSet{Blocks: make([]uint32, 9)}.Requests(nil) })
}

func TestNewBlockSet_Copies(t *testing.T) {
	t.Parallel()
	data := []uint32{1, 2}
	set := NewBlockSet(data...)
	data[0] = 99
	assert.Equal(t, uint32(1), set.Blocks[0])
	assert.Equal(t, 2, set.Len())
}

func TestWriteRequest_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "page 0 block 3 data DEADBEEF", WriteRequest{Block: 3, Data: 0xDEADBEEF}.String())
	assert.Equal(t, "page 1 block 0 data 00000001 locked with password",
		WriteRequest{Page: 1, Data: 1, Lock: true, UsePassword: true}.String())
}

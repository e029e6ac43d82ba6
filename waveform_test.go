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

func TestRecorder_MergesSegments(t *testing.T) {
	t.Parallel()
	rec := NewRecorder()
	rec.DelayMicroseconds(10) // carrier off
	rec.StartCarrier()
	rec.DelayMicroseconds(100)
	rec.DelayMicroseconds(50)
	rec.StartCarrier()
	rec.DelayMicroseconds(0)
	rec.StopCarrier()
	rec.DelayMicroseconds(20)

	assert.Equal(t, Waveform{
		{Carrier: false, Duration: 10},
		{Carrier: true, Duration: 150},
		{Carrier: false, Duration: 20},
	}, rec.Waveform())
	assert.Equal(t, uint64(180), rec.Waveform().Total())
	assert.Equal(t, 2, rec.Waveform().Gaps())

	taken := rec.Take()
	assert.Len(t, taken, 3)
	assert.Empty(t, rec.Waveform())
}

func TestRecorder_CriticalSections(t *testing.T) {
	t.Parallel()
	rec := NewRecorder()
	assert.False(t, rec.InCritical())
	rec.EnterCritical()
	assert.True(t, rec.InCritical())
	require.NoError(t, rec.ExitCritical())
	assert.False(t, rec.InCritical())
	assert.Equal(t, 1, rec.CriticalSections())
	assert.Equal(t, AntennaRecorder, rec.Type())
}

func TestWaveform_Frames(t *testing.T) {
	t.Parallel()
	profile := T5577Profile()
	rec := NewRecorder()
	rec.StartCarrier()
	enc := NewEncoder(rec, &profile)

	enc.StartGap()
	enc.EncodeWord(0b1101, 4)
	enc.Reset()

	frames := rec.Waveform().Frames(&profile)
	require.Len(t, frames, 2)
	assert.Equal(t, "1101", frames[0].String())
	assert.Equal(t, "10", frames[1].String())
	assert.Equal(t, uint32(0b1101), frames[0].Uint(0, 4))
}

func TestWaveform_FramesIgnoresLeadIn(t *testing.T) {
	t.Parallel()
	profile := T5577Profile()
	w := Waveform{
		{Carrier: true, Duration: profile.Data1},
		{Carrier: false, Duration: profile.WriteGap},
	}
	assert.Empty(t, w.Frames(&profile))
}

func TestDecodeFrame(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		bits      string
		want      WriteRequest
		wantReset bool
		wantErr   bool
	}{
		{name: "reset", bits: "10", wantReset: true},
		{name: "bad reset", bits: "11", wantErr: true},
		{name: "empty", bits: "", wantErr: true},
		{
			name: "page 0 block 5",
			bits: "10" + "0" + "00000000000000000000000000000001" + "101",
			want: WriteRequest{Block: 5, Data: 1},
		},
		{
			name: "page 1 locked",
			bits: "11" + "1" + "11111111111111111111111111111111" + "000",
			want: WriteRequest{Page: 1, Lock: true, Data: 0xFFFFFFFF},
		},
		{
			name: "password",
			bits: "10" + "00000000000000000000000000000011" + "0" + "00000000000000000000000000000010" + "111",
			want: WriteRequest{Block: 7, Data: 2, Password: 3, UsePassword: true},
		},
		{name: "bad opcode", bits: "00" + "0" + "00000000000000000000000000000000" + "000", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := make(Frame, len(tt.bits))
			for i, c := range tt.bits {
				f[i] = c == '1'
			}
			req, reset, err := DecodeFrame(f)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFrame)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantReset, reset)
			assert.Equal(t, tt.want, req)
		})
	}
}

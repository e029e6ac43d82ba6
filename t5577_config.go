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

// T5577 configuration block (block 0) bit fields.
const (
	T5577PORDelay           = 0x00000001
	T5577SequenceTerminator = 0x00000008
	T5577PasswordMode       = 0x00000010
	T5577MaxBlockShift      = 5
	T5577AnswerOnRequest    = 0x00000200
	T5577XMode              = 0x00020000
	T5577MasterKeyShift     = 28
	T5577MasterKeyMask      = 0xF0000000
	T5577MasterKeyDisabled  = 0x6
	t5577MaxBlockMask       = 0x7 << T5577MaxBlockShift
	t5577ModulationMask     = 0x0001F000
	t5577BitRateMask        = 0x001C0000
	t5577PSKCarrierMask     = 0x00000C00
)

// T5577Modulation selects the data modulation written into block 0.
type T5577Modulation uint32

const (
	ModulationDirect     T5577Modulation = 0x00000000
	ModulationPSK1       T5577Modulation = 0x00001000
	ModulationPSK2       T5577Modulation = 0x00002000
	ModulationPSK3       T5577Modulation = 0x00003000
	ModulationFSK1       T5577Modulation = 0x00004000
	ModulationFSK2       T5577Modulation = 0x00005000
	ModulationFSK1a      T5577Modulation = 0x00006000
	ModulationFSK2a      T5577Modulation = 0x00007000
	ModulationManchester T5577Modulation = 0x00008000
	ModulationBiphase    T5577Modulation = 0x00010000
	ModulationDiphase    T5577Modulation = 0x00018000
)

// T5577BitRate selects the data rate in field clocks per bit.
type T5577BitRate uint32

const (
	BitRateRF8   T5577BitRate = 0x00000000
	BitRateRF16  T5577BitRate = 0x00040000
	BitRateRF32  T5577BitRate = 0x00080000
	BitRateRF40  T5577BitRate = 0x000C0000
	BitRateRF50  T5577BitRate = 0x00100000
	BitRateRF64  T5577BitRate = 0x00140000
	BitRateRF100 T5577BitRate = 0x00180000
	BitRateRF128 T5577BitRate = 0x001C0000
)

// T5577PSKCarrier selects the PSK sub-carrier frequency.
type T5577PSKCarrier uint32

const (
	PSKCarrierRF2 T5577PSKCarrier = 0x00000000
	PSKCarrierRF4 T5577PSKCarrier = 0x00000400
	PSKCarrierRF8 T5577PSKCarrier = 0x00000800
)

// T5577Config describes the fields of a T5577 configuration word.
type T5577Config struct {
	Modulation         T5577Modulation
	BitRate            T5577BitRate
	PSKCarrier         T5577PSKCarrier
	MaxBlock           uint8
	Password           bool
	SequenceTerminator bool
	AnswerOnRequest    bool
	PORDelay           bool
	// MasterKey is the 4-bit field in bits 31-28. T5577MasterKeyDisabled
	// locks out test mode.
	MasterKey uint8
}

// Word encodes the configuration as the 32-bit block 0 value.
func (c T5577Config) Word() uint32 {
	must(c.MaxBlock <= MaxBlockAddress, "T5577Config", "max block must be 0-%d, got %d", MaxBlockAddress, c.MaxBlock)
	must(c.MasterKey <= 0xF, "T5577Config", "master key must be 4 bits, got %d", c.MasterKey)

	w := uint32(c.Modulation) | uint32(c.BitRate) | uint32(c.PSKCarrier)
	w |= uint32(c.MaxBlock) << T5577MaxBlockShift
	w |= uint32(c.MasterKey) << T5577MasterKeyShift
	if c.Password {
		w |= T5577PasswordMode
	}
	if c.SequenceTerminator {
		w |= T5577SequenceTerminator
	}
	if c.AnswerOnRequest {
		w |= T5577AnswerOnRequest
	}
	if c.PORDelay {
		w |= T5577PORDelay
	}
	return w
}

// ParseT5577Config decodes a block 0 value. X-mode words are rejected since
// their field layout differs.
func ParseT5577Config(word uint32) (T5577Config, error) {
	if word&T5577XMode != 0 {
		return T5577Config{}, fmt.Errorf("configuration word %08X uses extended mode", word)
	}
	c := T5577Config{
		Modulation:         T5577Modulation(word & t5577ModulationMask),
		BitRate:            T5577BitRate(word & t5577BitRateMask),
		PSKCarrier:         T5577PSKCarrier(word & t5577PSKCarrierMask),
		MaxBlock:           uint8((word & t5577MaxBlockMask) >> T5577MaxBlockShift),
		Password:           word&T5577PasswordMode != 0,
		SequenceTerminator: word&T5577SequenceTerminator != 0,
		AnswerOnRequest:    word&T5577AnswerOnRequest != 0,
		PORDelay:           word&T5577PORDelay != 0,
		MasterKey:          uint8((word & T5577MasterKeyMask) >> T5577MasterKeyShift),
	}
	return c, nil
}

// EM4100Config is the block 0 value used to clone an EM4100 tag.
func EM4100Config() T5577Config {
	return T5577Config{
		Modulation: ModulationManchester,
		BitRate:    BitRateRF64,
		MaxBlock:   2,
	}
}

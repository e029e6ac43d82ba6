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
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// CarrierFrequency is the LF-RFID field frequency.
const CarrierFrequency = 125 * physic.KiloHertz

// CarrierDuty is the continuous-wave duty cycle used while writing.
const CarrierDuty = gpio.DutyHalf

// Antenna is the timing primitive layer a write session drives.
// Implementations exist for Linux GPIO (antenna/gpio), a serial replay
// bridge (antenna/bridge) and an in-memory Recorder.
//
// The primitives used inside a critical section (StartCarrier, StopCarrier,
// DelayMicroseconds) cannot fail loudly: an implementation latches the first
// hardware error and returns it from ExitCritical.
type Antenna interface {
	// ConfigureCarrier sets the continuous modulation parameters without
	// starting output.
	ConfigureCarrier(freq physic.Frequency, duty gpio.Duty) error

	// StartCarrier enables continuous output with the configured parameters.
	StartCarrier()

	// StopCarrier disables continuous output, opening a field gap.
	StopCarrier()

	// ReleasePull disconnects any pull resistor so the antenna pin floats
	// into the coupling network instead of being grounded.
	ReleasePull() error

	// DelayMicroseconds busy-waits for us microseconds. It must not yield.
	DelayMicroseconds(us uint32)

	// EnterCritical disables preemption for the calling context.
	EnterCritical()

	// ExitCritical restores preemption and reports any error latched since
	// EnterCritical.
	ExitCritical() error

	// Release stops the carrier, resets the timer and leaves the pins in a
	// safe idle configuration.
	Release() error
}

// AntennaType identifies an Antenna implementation.
type AntennaType string

const (
	// AntennaGPIO drives the carrier from a host GPIO pin.
	AntennaGPIO AntennaType = "gpio"
	// AntennaBridge replays waveforms on a serial-attached microcontroller.
	AntennaBridge AntennaType = "bridge"
	// AntennaRecorder records waveforms in memory.
	AntennaRecorder AntennaType = "recorder"
	// AntennaMock represents a mock antenna for testing
	AntennaMock AntennaType = "mock"
)

// TypedAntenna is implemented by antennas that can report their type.
type TypedAntenna interface {
	Type() AntennaType
}

// antennaType returns the type of a, or "unknown".
func antennaType(a Antenna) AntennaType {
	if t, ok := a.(TypedAntenna); ok {
		return t.Type()
	}
	return "unknown"
}

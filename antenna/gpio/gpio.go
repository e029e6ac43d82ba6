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

// Package gpio provides an lfrfid.Antenna that drives the carrier directly
// from host GPIO pins through periph.io.
//
// A general-purpose OS cannot mask interrupts from user space. The critical
// section here pins the goroutine to its OS thread, pauses the garbage
// collector and, on Linux, switches the thread to SCHED_FIFO when the
// process is allowed to. That narrows jitter but does not bound it; use the
// bridge antenna when writes must be reliable.
package gpio

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// ErrPinNotFound is returned by Open for an unknown pin name.
var ErrPinNotFound = errors.New("gpio pin not found")

// Antenna implements lfrfid.Antenna on a PWM-capable carrier pin and an
// optional pull pin.
//
// Antenna is not safe for concurrent use; lfrfid.Writer serializes access.
type Antenna struct {
	carrier   gpio.PinIO
	pull      gpio.PinIO
	err       error
	sched     schedState
	freq      physic.Frequency
	duty      gpio.Duty
	gcPercent int
}

// Open initializes the periph host drivers and looks up the pins by name.
// pullName may be empty when the board has no separate pull pin.
func Open(carrierName, pullName string) (*Antenna, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	carrier := gpioreg.ByName(carrierName)
	if carrier == nil {
		return nil, fmt.Errorf("%w: carrier %q", ErrPinNotFound, carrierName)
	}

	var pull gpio.PinIO
	if pullName != "" {
		if pull = gpioreg.ByName(pullName); pull == nil {
			return nil, fmt.Errorf("%w: pull %q", ErrPinNotFound, pullName)
		}
	}
	return New(carrier, pull), nil
}

// New creates an Antenna from already resolved pins.
func New(carrier, pull gpio.PinIO) *Antenna {
	return &Antenna{
		carrier: carrier,
		pull:    pull,
		freq:    lfrfid.CarrierFrequency,
		duty:    lfrfid.CarrierDuty,
	}
}

// Type returns lfrfid.AntennaGPIO.
func (*Antenna) Type() lfrfid.AntennaType {
	return lfrfid.AntennaGPIO
}

// ConfigureCarrier stores the PWM parameters used by StartCarrier.
func (a *Antenna) ConfigureCarrier(freq physic.Frequency, duty gpio.Duty) error {
	if freq <= 0 || duty <= 0 || duty >= gpio.DutyMax {
		return fmt.Errorf("invalid carrier %s at %s", freq, duty)
	}
	a.freq = freq
	a.duty = duty
	return nil
}

// StartCarrier starts PWM output on the carrier pin.
func (a *Antenna) StartCarrier() {
	if err := a.carrier.PWM(a.duty, a.freq); err != nil {
		a.latch("StartCarrier", err)
	}
}

// StopCarrier drives the carrier pin low.
func (a *Antenna) StopCarrier() {
	if err := a.carrier.Out(gpio.Low); err != nil {
		a.latch("StopCarrier", err)
	}
}

// ReleasePull floats the pull pin.
func (a *Antenna) ReleasePull() error {
	if err := a.takeErr(); err != nil {
		return err
	}
	if a.pull == nil {
		return nil
	}
	if err := a.pull.In(gpio.Float, gpio.NoEdge); err != nil {
		return lfrfid.NewAntennaError("ReleasePull", lfrfid.AntennaGPIO, err)
	}
	return nil
}

// DelayMicroseconds spins on the monotonic clock.
func (*Antenna) DelayMicroseconds(us uint32) {
	spin(time.Duration(us) * time.Microsecond)
}

func spin(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}

// EnterCritical locks the OS thread, stops the garbage collector and raises
// the thread to real-time priority where permitted.
func (a *Antenna) EnterCritical() {
	runtime.LockOSThread()
	a.gcPercent = debug.SetGCPercent(-1)
	a.sched = enterRealtime()
}

// ExitCritical undoes EnterCritical and reports pin errors latched inside it.
func (a *Antenna) ExitCritical() error {
	exitRealtime(a.sched)
	debug.SetGCPercent(a.gcPercent)
	runtime.UnlockOSThread()
	return a.takeErr()
}

// Release drives the carrier low, halts it and floats the pull pin.
func (a *Antenna) Release() error {
	errs := []error{a.takeErr()}
	if err := a.carrier.Out(gpio.Low); err != nil {
		errs = append(errs, fmt.Errorf("carrier low: %w", err))
	}
	if err := a.carrier.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("carrier halt: %w", err))
	}
	if a.pull != nil {
		if err := a.pull.In(gpio.Float, gpio.NoEdge); err != nil {
			errs = append(errs, fmt.Errorf("pull float: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (a *Antenna) latch(op string, err error) {
	if a.err == nil {
		a.err = lfrfid.NewAntennaError(op, lfrfid.AntennaGPIO, fmt.Errorf("%w: %w", lfrfid.ErrCarrierOutput, err))
	}
}

func (a *Antenna) takeErr() error {
	err := a.err
	a.err = nil
	return err
}

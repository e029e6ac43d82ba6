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

package gpio

import (
	"context"
	"errors"
	"testing"
	"time"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

// failingPin fails PWM output.
type failingPin struct {
	*gpiotest.Pin
}

func (*failingPin) PWM(gpio.Duty, physic.Frequency) error {
	return errors.New("no PWM on this pin")
}

func newTestAntenna(t *testing.T) (*Antenna, *gpiotest.Pin, *gpiotest.Pin) {
	t.Helper()
	carrier := &gpiotest.Pin{N: "GPIO18", Num: 18, L: gpio.High}
	pull := &gpiotest.Pin{N: "GPIO17", Num: 17, P: gpio.PullDown}
	return New(carrier, pull), carrier, pull
}

func TestAntenna_Carrier(t *testing.T) {
	t.Parallel()
	ant, carrier, _ := newTestAntenna(t)

	require.NoError(t, ant.ConfigureCarrier(lfrfid.CarrierFrequency, lfrfid.CarrierDuty))
	ant.StartCarrier()
	assert.Equal(t, gpio.DutyHalf, carrier.D)
	assert.Equal(t, 125*physic.KiloHertz, carrier.F)

	ant.StopCarrier()
	assert.Equal(t, gpio.Low, carrier.L)
	assert.Equal(t, lfrfid.AntennaGPIO, ant.Type())
}

func TestAntenna_ConfigureCarrierInvalid(t *testing.T) {
	t.Parallel()
	ant, _, _ := newTestAntenna(t)
	assert.Error(t, ant.ConfigureCarrier(0, gpio.DutyHalf))
	assert.Error(t, ant.ConfigureCarrier(lfrfid.CarrierFrequency, 0))
	assert.Error(t, ant.ConfigureCarrier(lfrfid.CarrierFrequency, gpio.DutyMax), "constant high is not a carrier")
}

func TestAntenna_ReleasePull(t *testing.T) {
	t.Parallel()
	ant, _, pull := newTestAntenna(t)
	require.NoError(t, ant.ReleasePull())
	assert.Equal(t, gpio.Float, pull.P)

	noPull := New(&gpiotest.Pin{N: "GPIO18"}, nil)
	assert.NoError(t, noPull.ReleasePull())
}

func TestAntenna_DelaySpins(t *testing.T) {
	t.Parallel()
	ant, _, _ := newTestAntenna(t)
	start := time.Now()
	ant.DelayMicroseconds(500)
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Microsecond)
}

// EnterCritical changes process-wide GC settings, so the tests that use it
// do not run in parallel.
func TestAntenna_CarrierErrorLatchedUntilExit(t *testing.T) {
	ant := New(&failingPin{&gpiotest.Pin{N: "GPIO4"}}, nil)

	ant.EnterCritical()
	ant.StartCarrier()
	ant.StartCarrier()
	err := ant.ExitCritical()
	require.ErrorIs(t, err, lfrfid.ErrCarrierOutput)
	var aerr *lfrfid.AntennaError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "StartCarrier", aerr.Op)

	assert.NoError(t, ant.ReleasePull(), "error is reported once")
}

func TestAntenna_Release(t *testing.T) {
	t.Parallel()
	ant, carrier, pull := newTestAntenna(t)
	ant.StartCarrier()

	require.NoError(t, ant.Release())
	assert.Equal(t, gpio.Low, carrier.L)
	assert.Equal(t, gpio.Float, pull.P)
}

func TestAntenna_WriteSession(t *testing.T) {
	ant, carrier, pull := newTestAntenna(t)
	profile := lfrfid.NewProfileFromFieldClocks(lfrfid.FamilyT5577, 4, 3, 1, 2, 5, 7)
	w, err := lfrfid.NewWriter(ant, lfrfid.WithProfile(profile))
	require.NoError(t, err)

	s, err := w.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gpio.Float, pull.P)
	assert.Equal(t, 125*physic.KiloHertz, carrier.F)

	start := time.Now()
	require.NoError(t, s.WriteBatch(context.Background(), lfrfid.NewBlockSet(0xFFFFFFFF)))
	assert.GreaterOrEqual(t, time.Since(start), time.Duration(profile.BlockWriteDuration(0xFFFFFFFF, 0))*time.Microsecond)

	require.NoError(t, s.Stop())
	assert.Equal(t, gpio.Low, carrier.L)
}

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
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// AntennaEvent is one call observed by MockAntenna.
type AntennaEvent struct {
	Op         string
	Arg        uint32
	InCritical bool
}

// MockAntenna records every primitive call, keeps a waveform through an
// inner Recorder and can be told to fail individual operations.
type MockAntenna struct {
	ConfigureErr error
	PullErr      error
	ExitErr      error
	ReleaseErr   error
	rec          *Recorder
	events       []AntennaEvent
	critical     int
	mu           sync.Mutex
}

// NewMockAntenna creates a new mock antenna
func NewMockAntenna() *MockAntenna {
	return &MockAntenna{rec: NewRecorder()}
}

func (m *MockAntenna) record(op string, arg uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, AntennaEvent{Op: op, Arg: arg, InCritical: m.critical > 0})
}

// ConfigureCarrier records the call and returns ConfigureErr
func (m *MockAntenna) ConfigureCarrier(freq physic.Frequency, duty gpio.Duty) error {
	m.record("ConfigureCarrier", uint32(freq/physic.Hertz))
	if m.ConfigureErr != nil {
		return m.ConfigureErr
	}
	return m.rec.ConfigureCarrier(freq, duty)
}

// StartCarrier records the call
func (m *MockAntenna) StartCarrier() {
	m.record("StartCarrier", 0)
	m.rec.StartCarrier()
}

// StopCarrier records the call
func (m *MockAntenna) StopCarrier() {
	m.record("StopCarrier", 0)
	m.rec.StopCarrier()
}

// ReleasePull records the call and returns PullErr
func (m *MockAntenna) ReleasePull() error {
	m.record("ReleasePull", 0)
	if m.PullErr != nil {
		return m.PullErr
	}
	return m.rec.ReleasePull()
}

// DelayMicroseconds records the call
func (m *MockAntenna) DelayMicroseconds(us uint32) {
	m.record("Delay", us)
	m.rec.DelayMicroseconds(us)
}

// EnterCritical records the call
func (m *MockAntenna) EnterCritical() {
	m.record("EnterCritical", 0)
	m.mu.Lock()
	m.critical++
	m.mu.Unlock()
	m.rec.EnterCritical()
}

// ExitCritical records the call and returns ExitErr
func (m *MockAntenna) ExitCritical() error {
	m.mu.Lock()
	m.critical--
	m.mu.Unlock()
	m.record("ExitCritical", 0)
	_ = m.rec.ExitCritical()
	return m.ExitErr
}

// Release records the call and returns ReleaseErr
func (m *MockAntenna) Release() error {
	m.record("Release", 0)
	_ = m.rec.Release()
	return m.ReleaseErr
}

// Type returns AntennaMock
func (*MockAntenna) Type() AntennaType {
	return AntennaMock
}

// Events returns a copy of the recorded calls
func (m *MockAntenna) Events() []AntennaEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AntennaEvent(nil), m.events...)
}

// Ops returns the names of the recorded calls
func (m *MockAntenna) Ops() []string {
	events := m.Events()
	ops := make([]string, len(events))
	for i, e := range events {
		ops[i] = e.Op
	}
	return ops
}

// Count returns how many times op was called
func (m *MockAntenna) Count(op string) int {
	n := 0
	for _, e := range m.Events() {
		if e.Op == op {
			n++
		}
	}
	return n
}

// Waveform returns the recorded carrier waveform
func (m *MockAntenna) Waveform() Waveform {
	return m.rec.Waveform()
}

// Recorder exposes the inner recorder
func (m *MockAntenna) Recorder() *Recorder {
	return m.rec
}

// Reset clears the recorded calls and waveform
func (m *MockAntenna) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	m.rec.Take()
}

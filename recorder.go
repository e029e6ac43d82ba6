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

// Recorder is an Antenna that records the carrier waveform instead of
// driving hardware. Delays return immediately.
type Recorder struct {
	segments      Waveform
	frequency     physic.Frequency
	duty          gpio.Duty
	critical      int
	criticalCount int
	mu            sync.Mutex
	carrier       bool
	configured    bool
	pullReleased  bool
}

// NewRecorder creates an empty Recorder with the carrier off.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ConfigureCarrier records the carrier parameters.
func (r *Recorder) ConfigureCarrier(freq physic.Frequency, duty gpio.Duty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frequency = freq
	r.duty = duty
	r.configured = true
	return nil
}

// StartCarrier turns the recorded carrier on.
func (r *Recorder) StartCarrier() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carrier = true
}

// StopCarrier turns the recorded carrier off.
func (r *Recorder) StopCarrier() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carrier = false
}

// ReleasePull records that the pull was released.
func (r *Recorder) ReleasePull() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pullReleased = true
	return nil
}

// DelayMicroseconds extends the current segment or starts a new one.
func (r *Recorder) DelayMicroseconds(us uint32) {
	if us == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.segments); n > 0 && r.segments[n-1].Carrier == r.carrier {
		r.segments[n-1].Duration += us
		return
	}
	r.segments = append(r.segments, Segment{Carrier: r.carrier, Duration: us})
}

// EnterCritical marks the start of a critical section.
func (r *Recorder) EnterCritical() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.critical++
	r.criticalCount++
}

// ExitCritical marks the end of a critical section.
func (r *Recorder) ExitCritical() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.critical--
	return nil
}

// Release turns the carrier off and forgets the pull state.
func (r *Recorder) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carrier = false
	r.pullReleased = false
	return nil
}

// Type returns AntennaRecorder.
func (*Recorder) Type() AntennaType {
	return AntennaRecorder
}

// Waveform returns a copy of the recorded segments.
func (r *Recorder) Waveform() Waveform {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(Waveform(nil), r.segments...)
}

// Take returns the recorded segments and clears the recording.
func (r *Recorder) Take() Waveform {
	r.mu.Lock()
	defer r.mu.Unlock()
	w := r.segments
	r.segments = nil
	return w
}

// Carrier reports whether the carrier is currently on.
func (r *Recorder) Carrier() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carrier
}

// CarrierConfig returns the carrier parameters as last configured.
func (r *Recorder) CarrierConfig() (freq physic.Frequency, duty gpio.Duty, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frequency, r.duty, r.configured
}

// PullReleased reports whether ReleasePull was called since the last Release.
func (r *Recorder) PullReleased() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pullReleased
}

// CriticalSections returns how many critical sections were entered.
func (r *Recorder) CriticalSections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.criticalCount
}

// InCritical reports whether a critical section is open.
func (r *Recorder) InCritical() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.critical > 0
}

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
	"context"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// WriterConfig contains configuration options for the Writer
type WriterConfig struct {
	// Profile is the timing table used by every session of the writer
	Profile TimingProfile
	// CarrierFrequency is the continuous-wave frequency
	CarrierFrequency physic.Frequency
	// CarrierDuty is the continuous-wave duty cycle
	CarrierDuty gpio.Duty
}

// DefaultWriterConfig returns the T5577 configuration at 125 kHz, 50% duty.
func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		Profile:          T5577Profile(),
		CarrierFrequency: CarrierFrequency,
		CarrierDuty:      CarrierDuty,
	}
}

// Writer owns an antenna and hands out at most one active Session at a time.
type Writer struct {
	antenna Antenna
	config  *WriterConfig
	active  *Session
	mu      sync.Mutex
}

// NewWriter creates a Writer for the given antenna.
func NewWriter(antenna Antenna, opts ...Option) (*Writer, error) {
	if antenna == nil {
		return nil, ErrNoAntenna
	}
	w := &Writer{
		antenna: antenna,
		config:  DefaultWriterConfig(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	if err := w.config.Profile.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Profile returns the writer's timing profile.
func (w *Writer) Profile() TimingProfile {
	return w.config.Profile
}

// Active reports whether a session is currently open.
func (w *Writer) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active != nil
}

// Start claims the antenna, configures the carrier and begins continuous
// emission with the pull resistor released. Starting while another session
// is active returns ErrSessionActive.
func (w *Writer) Start(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active != nil {
		return nil, ErrSessionActive
	}

	typ := antennaType(w.antenna)
	if err := w.antenna.ConfigureCarrier(w.config.CarrierFrequency, w.config.CarrierDuty); err != nil {
		return nil, NewAntennaError("ConfigureCarrier", typ, fmt.Errorf("%w: %w", ErrCarrierConfig, err))
	}
	w.antenna.StartCarrier()
	if err := w.antenna.ReleasePull(); err != nil {
		_ = w.antenna.Release()
		return nil, NewAntennaError("ReleasePull", typ, fmt.Errorf("%w: %w", ErrPullRelease, err))
	}

	profile := w.config.Profile
	s := &Session{
		writer:  w,
		encoder: NewEncoder(w.antenna, &profile),
		state:   SessionActive,
	}
	w.active = s
	Debugf("session started on %s antenna, %s", typ, &profile)
	return s, nil
}

// WriteT5577 runs a full session: start, batch write, stop.
func (w *Writer) WriteT5577(ctx context.Context, blocks BlockSet) error {
	s, err := w.Start(ctx)
	if err != nil {
		return err
	}
	writeErr := s.WriteBatch(ctx, blocks)
	if stopErr := s.Stop(); stopErr != nil && writeErr == nil {
		return stopErr
	}
	return writeErr
}

// WriteT5577WithPassword runs a full session writing blocks in password mode.
func (w *Writer) WriteT5577WithPassword(ctx context.Context, blocks BlockSet, password uint32) error {
	s, err := w.Start(ctx)
	if err != nil {
		return err
	}
	writeErr := s.WriteBatchWithPassword(ctx, blocks, password)
	if stopErr := s.Stop(); stopErr != nil && writeErr == nil {
		return stopErr
	}
	return writeErr
}

func (w *Writer) release(s *Session) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active == s {
		w.active = nil
	}
}

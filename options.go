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
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Option is a functional option for configuring a Writer
type Option func(*Writer) error

// WithProfile sets the timing profile used by the writer
func WithProfile(profile TimingProfile) Option {
	return func(w *Writer) error {
		if err := profile.Validate(); err != nil {
			return err
		}
		w.config.Profile = profile
		return nil
	}
}

// WithFamily selects the built-in timing profile of a tag family
func WithFamily(family Family) Option {
	return func(w *Writer) error {
		profile, err := ProfileFor(family)
		if err != nil {
			return err
		}
		w.config.Profile = profile
		return nil
	}
}

// WithCarrier overrides the continuous-wave frequency and duty cycle
func WithCarrier(freq physic.Frequency, duty gpio.Duty) Option {
	return func(w *Writer) error {
		if freq <= 0 {
			return fmt.Errorf("%w: frequency %s", ErrCarrierConfig, freq)
		}
		if duty <= 0 || duty >= gpio.DutyMax {
			return fmt.Errorf("%w: duty %s", ErrCarrierConfig, duty)
		}
		w.config.CarrierFrequency = freq
		w.config.CarrierDuty = duty
		return nil
	}
}

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

package bridge

import (
	"errors"
	"fmt"
	"time"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"github.com/ZaparooProject/go-lfrfid/internal/frame"
	"github.com/ZaparooProject/go-lfrfid/internal/retry"
)

const readChunk = 512

// exchange sends one command, resending it while the bridge NACKs, then
// waits up to timeout for the response. It returns the response arguments
// after the status byte.
func (a *Antenna) exchange(cmd byte, args []byte, timeout time.Duration) ([]byte, error) {
	body := make([]byte, 0, 1+len(args))
	body = append(body, cmd)
	body = append(body, args...)
	frm, err := frame.Build(frame.HostToBridge, body)
	if err != nil {
		return nil, a.wrap("exchange", err)
	}

	_, err = retry.Do(retry.Config{
		Description: fmt.Sprintf("command %#02x", cmd),
		MaxRetries:  a.config.MaxRetries,
		OnRetry: func() error {
			lfrfid.Debugf("bridge NACK for command %#02x, resending", cmd)
			return nil
		},
	}, func() (struct{}, bool, error) {
		if _, err := a.port.Write(frm); err != nil {
			return struct{}{}, false, fmt.Errorf("write failed: %w", err)
		}
		acked, err := a.readAck(time.Now().Add(a.config.AckTimeout))
		if err != nil {
			return struct{}{}, false, err
		}
		return struct{}{}, !acked, nil
	})
	if err != nil {
		return nil, a.wrap("exchange", err)
	}

	resp, err := a.readFrame(time.Now().Add(timeout))
	if err != nil {
		return nil, a.wrap("response", err)
	}
	if len(resp) < 2 || resp[0] != cmd+1 {
		return nil, a.wrap("response", fmt.Errorf("%w: unexpected response % X to command %#02x",
			lfrfid.ErrBridgeFrame, resp, cmd))
	}
	if resp[1] != 0 {
		return nil, a.wrap("response", fmt.Errorf("bridge status %#02x for command %#02x", resp[1], cmd))
	}
	return resp[2:], nil
}

func (a *Antenna) wrap(op string, err error) error {
	return lfrfid.NewAntennaError(op, lfrfid.AntennaBridge, fmt.Errorf("%s: %w", a.portName, err))
}

// fill reads whatever the port has into the receive buffer.
func (a *Antenna) fill(deadline time.Time) error {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return lfrfid.ErrBridgeTimeout
	}
	if err := a.port.SetReadTimeout(remaining); err != nil {
		return fmt.Errorf("set read timeout: %w", err)
	}
	buf := make([]byte, readChunk)
	n, err := a.port.Read(buf)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	a.rx = append(a.rx, buf[:n]...)
	return nil
}

// readAck waits for an ACK or NACK frame. It reports true for ACK.
func (a *Antenna) readAck(deadline time.Time) (bool, error) {
	for len(a.rx) < len(frame.AckFrame) {
		if err := a.fill(deadline); err != nil {
			return false, err
		}
	}
	switch {
	case frame.IsAck(a.rx):
		a.rx = a.rx[len(frame.AckFrame):]
		return true, nil
	case frame.IsNack(a.rx):
		a.rx = a.rx[len(frame.NackFrame):]
		return false, nil
	default:
		a.rx = nil
		return false, fmt.Errorf("%w: expected ACK", lfrfid.ErrBridgeFrame)
	}
}

// readFrame waits for a complete bridge-to-host frame and returns its body.
func (a *Antenna) readFrame(deadline time.Time) ([]byte, error) {
	for {
		tfi, body, n, err := frame.Parse(a.rx)
		switch {
		case errors.Is(err, frame.ErrShortFrame):
			if err := a.fill(deadline); err != nil {
				a.rx = nil
				return nil, err
			}
			continue
		case err != nil:
			a.rx = nil
			return nil, fmt.Errorf("%w: %w", lfrfid.ErrBridgeFrame, err)
		}
		resp := append([]byte(nil), body...)
		a.rx = a.rx[n:]
		if tfi != frame.BridgeToHost {
			return nil, fmt.Errorf("%w: unexpected TFI %#02x", lfrfid.ErrBridgeFrame, tfi)
		}
		return resp, nil
	}
}

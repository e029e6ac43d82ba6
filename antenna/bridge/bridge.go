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

// Package bridge provides an lfrfid.Antenna backed by a microcontroller on a
// serial link. The host cannot hold microsecond timing, so everything
// emitted inside a critical section is captured as a waveform and uploaded
// in one frame; the bridge replays it with hardware timers and reports back
// when the last segment has been emitted.
package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"github.com/ZaparooProject/go-lfrfid/internal/frame"
	"github.com/ZaparooProject/go-lfrfid/internal/retry"
	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Bridge commands. Responses carry the command code plus one.
const (
	cmdConfigure   = 0x10
	cmdCarrier     = 0x12
	cmdReleasePull = 0x14
	cmdReplay      = 0x16
	cmdRelease     = 0x18
	cmdPing        = 0x1A
)

const (
	// DefaultBaudRate is the link speed of the reference bridge firmware.
	DefaultBaudRate = 115200

	// DefaultReadyTimeout bounds how long Open waits for the firmware to
	// answer after the port is opened.
	DefaultReadyTimeout = 2 * time.Second
	readyPollInterval   = 50 * time.Millisecond

	segmentCarrierBit = 1 << 31
	segmentSize       = 4
	replayHeaderSize  = 4

	// MaxSegments is the largest waveform one replay frame can carry.
	MaxSegments = (frame.MaxExtendedDataLength - 2 - replayHeaderSize) / segmentSize
)

// ErrWaveformTooLong is returned when a critical section emits more
// segments than fit in a replay frame.
var ErrWaveformTooLong = errors.New("waveform too long for replay frame")

// Port is the subset of serial.Port the bridge needs.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
}

// Config contains link settings.
type Config struct {
	// AckTimeout bounds the wait for an ACK and for non-replay responses.
	AckTimeout time.Duration
	// ReplayMargin is added to the waveform length when waiting for the
	// replay completion response.
	ReplayMargin time.Duration
	// MaxRetries is the number of resends after a NACK.
	MaxRetries int
}

// DefaultConfig returns the default link settings.
func DefaultConfig() Config {
	return Config{
		AckTimeout:   100 * time.Millisecond,
		ReplayMargin: 250 * time.Millisecond,
		MaxRetries:   3,
	}
}

// Antenna implements lfrfid.Antenna over a serial bridge.
type Antenna struct {
	port     Port
	rec      *lfrfid.Recorder
	err      error
	portName string
	rx       []byte
	config   Config
	mu       sync.Mutex
	carrier  bool
	critical bool
}

// Open opens the serial port and returns a bridge antenna.
func Open(portName string) (*Antenna, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: DefaultBaudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge port %s: %w", portName, err)
	}
	a := New(port, portName, DefaultConfig())
	if err := a.WaitReady(DefaultReadyTimeout); err != nil {
		_ = port.Close()
		return nil, err
	}
	return a, nil
}

// New wraps an already open port.
func New(port Port, portName string, config Config) *Antenna {
	return &Antenna{
		port:     port,
		portName: portName,
		config:   config,
		rec:      lfrfid.NewRecorder(),
	}
}

// WaitReady pings the bridge until it answers or timeout elapses. Boards
// that reset when the port opens drop frames until their firmware is up.
func (a *Antenna) WaitReady(timeout time.Duration) error {
	_, err := retry.Until(timeout, readyPollInterval, func() (struct{}, bool, error) {
		a.mu.Lock()
		defer a.mu.Unlock()
		_, err := a.exchange(cmdPing, nil, a.config.AckTimeout)
		if errors.Is(err, lfrfid.ErrBridgeTimeout) {
			a.rx = nil
			return struct{}{}, true, nil
		}
		return struct{}{}, false, err
	})
	if errors.Is(err, lfrfid.ErrBridgeTimeout) {
		return a.wrap("ping", err)
	}
	return err
}

// Type returns lfrfid.AntennaBridge.
func (*Antenna) Type() lfrfid.AntennaType {
	return lfrfid.AntennaBridge
}

// Close closes the serial port.
func (a *Antenna) Close() error {
	if err := a.port.Close(); err != nil {
		return fmt.Errorf("failed to close bridge port: %w", err)
	}
	return nil
}

// ConfigureCarrier sends the carrier parameters to the bridge.
func (a *Antenna) ConfigureCarrier(freq physic.Frequency, duty gpio.Duty) error {
	args := make([]byte, 8)
	binary.BigEndian.PutUint32(args[0:4], uint32(freq/physic.Hertz))
	binary.BigEndian.PutUint32(args[4:8], uint32(duty))

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.exchange(cmdConfigure, args, a.config.AckTimeout)
	return err
}

// StartCarrier enables the carrier, or records it inside a critical section.
func (a *Antenna) StartCarrier() {
	a.setCarrier(true)
}

// StopCarrier disables the carrier, or records it inside a critical section.
func (a *Antenna) StopCarrier() {
	a.setCarrier(false)
}

func (a *Antenna) setCarrier(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.critical {
		if on {
			a.rec.StartCarrier()
		} else {
			a.rec.StopCarrier()
		}
		return
	}
	var arg byte
	if on {
		arg = 1
	}
	if _, err := a.exchange(cmdCarrier, []byte{arg}, a.config.AckTimeout); err != nil {
		a.latch(err)
		return
	}
	a.carrier = on
}

// ReleasePull asks the bridge to float its pull pin. It also reports any
// error latched by an earlier carrier command.
func (a *Antenna) ReleasePull() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeErr(); err != nil {
		return err
	}
	_, err := a.exchange(cmdReleasePull, nil, a.config.AckTimeout)
	return err
}

// DelayMicroseconds records the delay inside a critical section and sleeps
// outside of one.
func (a *Antenna) DelayMicroseconds(us uint32) {
	a.mu.Lock()
	if a.critical {
		a.rec.DelayMicroseconds(us)
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// EnterCritical starts capturing a waveform.
func (a *Antenna) EnterCritical() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rec.Take()
	if a.carrier {
		a.rec.StartCarrier()
	} else {
		a.rec.StopCarrier()
	}
	a.critical = true
}

// ExitCritical uploads the captured waveform and waits until the bridge has
// replayed it. A NACKed upload is resent; a replay is never repeated.
func (a *Antenna) ExitCritical() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.critical = false

	initial := a.carrier
	final := a.rec.Carrier()
	wave := a.rec.Take()
	if err := a.takeErr(); err != nil {
		return err
	}
	if len(wave) > MaxSegments {
		return lfrfid.NewAntennaError("ExitCritical", lfrfid.AntennaBridge,
			fmt.Errorf("%w: %d segments", ErrWaveformTooLong, len(wave)))
	}

	payload := encodeReplay(initial, final, wave)
	timeout := time.Duration(wave.Total())*time.Microsecond + a.config.ReplayMargin
	lfrfid.Debugf("bridge replay: %d segments, %s", len(wave), time.Duration(wave.Total())*time.Microsecond)
	if _, err := a.exchange(cmdReplay, payload, timeout); err != nil {
		return err
	}
	a.carrier = final
	return nil
}

// Release stops the carrier and returns the bridge pins to idle.
func (a *Antenna) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	latched := a.takeErr()
	_, err := a.exchange(cmdRelease, nil, a.config.AckTimeout)
	a.carrier = false
	return errors.Join(latched, err)
}

func (a *Antenna) latch(err error) {
	if a.err == nil {
		a.err = err
	}
}

func (a *Antenna) takeErr() error {
	err := a.err
	a.err = nil
	return err
}

// encodeReplay lays out a replay body: initial and final carrier state, a
// segment count and one big-endian word per segment with the carrier state
// in the top bit.
func encodeReplay(initial, final bool, wave lfrfid.Waveform) []byte {
	buf := make([]byte, replayHeaderSize, replayHeaderSize+len(wave)*segmentSize)
	buf[0] = boolByte(initial)
	buf[1] = boolByte(final)
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(wave)))
	for _, s := range wave {
		v := s.Duration &^ segmentCarrierBit
		if s.Carrier {
			v |= segmentCarrierBit
		}
		buf = binary.BigEndian.AppendUint32(buf, v)
	}
	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

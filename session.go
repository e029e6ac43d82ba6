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
)

// SessionState is the lifecycle state of an antenna session.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionActive
	SessionWriting
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionActive:
		return "active"
	case SessionWriting:
		return "writing"
	case SessionClosed:
		return "closed"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Session is the ownership token for a started antenna. All writes go
// through it; a zero Session or one that was stopped rejects writes with
// ErrSessionNotActive.
//
// A write cannot be cancelled once it has entered its critical section. The
// context is only consulted before that point.
type Session struct {
	writer  *Writer
	encoder *Encoder
	mu      sync.Mutex
	state   SessionState
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// WriteBatch writes blocks to addresses 0..N-1 of page 0, then emits one
// final reset frame, all inside a single critical section.
func (s *Session) WriteBatch(ctx context.Context, blocks BlockSet) error {
	return s.writeBatch(ctx, blocks, nil)
}

// WriteBatchWithPassword is WriteBatch with password mode on every block.
func (s *Session) WriteBatchWithPassword(ctx context.Context, blocks BlockSet, password uint32) error {
	return s.writeBatch(ctx, blocks, &password)
}

func (s *Session) writeBatch(ctx context.Context, blocks BlockSet, password *uint32) error {
	reqs := blocks.Requests(password)
	err := s.run(ctx, func(enc *Encoder) {
		for _, req := range reqs {
			enc.WriteBlock(req)
		}
		enc.Reset()
	})
	if err != nil {
		return fmt.Errorf("batch write of %d blocks: %w", len(reqs), err)
	}
	Debugf("wrote %d blocks", len(reqs))
	return nil
}

// WriteBlock performs a single block write in its own critical section.
func (s *Session) WriteBlock(ctx context.Context, req WriteRequest) error {
	req.check()
	err := s.run(ctx, func(enc *Encoder) {
		enc.WriteBlock(req)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", req, err)
	}
	Debugf("wrote %s", req)
	return nil
}

// run executes emit inside the antenna's critical section.
func (s *Session) run(ctx context.Context, emit func(*Encoder)) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return ErrSessionNotActive
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = SessionWriting
	defer func() { s.state = SessionActive }()

	antenna := s.writer.antenna
	antenna.EnterCritical()
	defer func() {
		if exitErr := antenna.ExitCritical(); exitErr != nil && err == nil {
			err = exitErr
		}
	}()
	emit(s.encoder)
	return nil
}

// Stop halts the carrier, resets the antenna and releases ownership.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionActive {
		return ErrSessionNotActive
	}
	s.state = SessionClosed
	defer s.writer.release(s)

	antenna := s.writer.antenna
	antenna.StopCarrier()
	if err := antenna.Release(); err != nil {
		return NewAntennaError("Release", antennaType(antenna), err)
	}
	Debugln("session stopped")
	return nil
}

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

package retry

import (
	"errors"
	"testing"
	"time"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo_SucceedsAfterRetries(t *testing.T) {
	t.Parallel()
	calls, callbacks := 0, 0
	got, err := Do(Config{
		MaxRetries: 3,
		OnRetry:    func() error { callbacks++; return nil },
	}, func() (int, bool, error) {
		calls++
		return calls, calls < 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, 2, callbacks)
}

func TestDo_Exhausted(t *testing.T) {
	t.Parallel()
	calls := 0
	_, err := Do(Config{MaxRetries: 2, Description: "configure"}, func() (struct{}, bool, error) {
		calls++
		return struct{}{}, true, nil
	})

	require.ErrorIs(t, err, lfrfid.ErrBridgeNACK)
	assert.Contains(t, err.Error(), "configure")
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentError(t *testing.T) {
	t.Parallel()
	boom := errors.New("port closed")
	calls := 0
	_, err := Do(Config{MaxRetries: 5}, func() (int, bool, error) {
		calls++
		return 0, true, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDo_CallbackError(t *testing.T) {
	t.Parallel()
	boom := errors.New("flush failed")
	_, err := Do(Config{MaxRetries: 5, OnRetry: func() error { return boom }}, func() (int, bool, error) {
		return 0, true, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestUntil(t *testing.T) {
	t.Parallel()
	calls := 0
	got, err := Until(time.Second, time.Millisecond, func() (string, bool, error) {
		calls++
		return "ack", calls < 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ack", got)

	_, err = Until(5*time.Millisecond, time.Millisecond, func() (string, bool, error) {
		return "", true, nil
	})
	assert.ErrorIs(t, err, lfrfid.ErrBridgeTimeout)
}

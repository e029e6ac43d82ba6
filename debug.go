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
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/logutils"
)

// Log levels understood by the output filter.
const (
	LevelDebug logutils.LogLevel = "DEBUG"
	LevelWarn  logutils.LogLevel = "WARN"
	LevelError logutils.LogLevel = "ERROR"
)

var (
	logMu        sync.Mutex
	logOutput    io.Writer = os.Stderr
	debugEnabled atomic.Bool
	logger       atomic.Pointer[log.Logger]
)

func init() {
	rebuildLogger()
}

// rebuildLogger swaps in a logger whose filter matches the current debug
// setting. Callers hold logMu except during init.
func rebuildLogger() {
	minLevel := LevelWarn
	if debugEnabled.Load() {
		minLevel = LevelDebug
	}
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{LevelDebug, LevelWarn, LevelError},
		MinLevel: minLevel,
		Writer:   logOutput,
	}
	logger.Store(log.New(filter, "lfrfid: ", log.LstdFlags))
}

// SetDebugEnabled turns debug output on or off.
func SetDebugEnabled(enabled bool) {
	logMu.Lock()
	defer logMu.Unlock()
	debugEnabled.Store(enabled)
	rebuildLogger()
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// SetLogOutput redirects library log output. A nil writer restores the
// default, os.Stderr.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logMu.Lock()
	defer logMu.Unlock()
	logOutput = w
	rebuildLogger()
}

// Debugf prints a formatted debug message when debug output is enabled.
func Debugf(format string, args ...any) {
	if debugEnabled.Load() {
		logger.Load().Printf("[DEBUG] "+format, args...)
	}
}

// Debugln prints a debug message when debug output is enabled.
func Debugln(args ...any) {
	if debugEnabled.Load() {
		logger.Load().Println(append([]any{"[DEBUG]"}, args...)...)
	}
}

// Warnf prints a warning. Warnings are shown whether or not debug output
// is enabled.
func Warnf(format string, args ...any) {
	logger.Load().Printf("[WARN] "+format, args...)
}

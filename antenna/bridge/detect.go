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
	"fmt"
	"path/filepath"
	"strings"

	"go.bug.st/serial/enumerator"
)

// PortInfo describes a candidate bridge port.
type PortInfo struct {
	Path    string
	VIDPID  string
	Serial  string
	Product string
}

// DetectOptions filters port detection.
type DetectOptions struct {
	// Blocklist holds VID:PID pairs (hex, case-insensitive) never to use.
	Blocklist []string
	// IgnorePaths holds device paths never to use.
	IgnorePaths []string
	// IncludeNonUSB also returns on-board UARTs.
	IncludeNonUSB bool
}

// DetectPorts lists serial ports that may host a bridge.
func DetectPorts(opts DetectOptions) ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	return filterPorts(details, opts), nil
}

// FindPorts returns the paths DetectPorts finds with default options.
func FindPorts() ([]string, error) {
	ports, err := DetectPorts(DetectOptions{})
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(ports))
	for i, p := range ports {
		paths[i] = p.Path
	}
	return paths, nil
}

func filterPorts(details []*enumerator.PortDetails, opts DetectOptions) []PortInfo {
	var ports []PortInfo
	for _, d := range details {
		if !d.IsUSB && !opts.IncludeNonUSB {
			continue
		}
		if IsPathIgnored(d.Name, opts.IgnorePaths) {
			continue
		}
		info := PortInfo{Path: d.Name, Serial: d.SerialNumber, Product: d.Product}
		if d.IsUSB {
			info.VIDPID = strings.ToUpper(d.VID + ":" + d.PID)
			if IsBlocked(info.VIDPID, opts.Blocklist) {
				continue
			}
		}
		ports = append(ports, info)
	}
	return ports
}

// IsBlocked checks if a USB device is in the blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.ToUpper(strings.TrimSpace(vidpid))
	for _, blocked := range blocklist {
		if vidpid == strings.ToUpper(strings.TrimSpace(blocked)) {
			return true
		}
	}
	return false
}

// IsPathIgnored checks if a device path should be ignored.
// Supports exact path matching and normalized path comparison.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}
	normalizedDevice := normalizedPath(devicePath)
	for _, ignorePath := range ignorePaths {
		if ignorePath == "" {
			continue
		}
		if devicePath == ignorePath || normalizedDevice == normalizedPath(ignorePath) {
			return true
		}
	}
	return false
}

// normalizedPath normalizes a device path for comparison
func normalizedPath(path string) string {
	// Lowercase for case-insensitive comparison on Windows
	return strings.ToLower(filepath.Clean(path))
}

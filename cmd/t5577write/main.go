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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	lfrfid "github.com/ZaparooProject/go-lfrfid"
	"github.com/ZaparooProject/go-lfrfid/antenna/bridge"
	"github.com/ZaparooProject/go-lfrfid/antenna/gpio"
	"github.com/ZaparooProject/go-lfrfid/internal/config"
	virtual "github.com/ZaparooProject/go-lfrfid/internal/testing"
)

type cliConfig struct {
	antenna    *string
	carrierPin *string
	pullPin    *string
	port       *string
	ignore     *string
	blocklist  *string
	family     *string
	profiles   *string
	blocks     *string
	data       *string
	password   *string
	block      *uint
	page       *uint
	lock       *bool
	debug      *bool
	timeout    *time.Duration
}

func parseFlags() *cliConfig {
	cfg := &cliConfig{
		antenna:    flag.String("antenna", "dry-run", "Antenna backend: gpio, bridge or dry-run"),
		carrierPin: flag.String("carrier-pin", "GPIO18", "PWM-capable carrier pin (gpio backend)"),
		pullPin:    flag.String("pull-pin", "", "Pull pin to float while writing (gpio backend, optional)"),
		port: flag.String("port", "",
			"Serial port of the replay bridge (e.g., /dev/ttyACM0). Leave empty to use the first port found."),
		ignore: flag.String("ignore-ports", "",
			"Comma-separated serial ports to skip during bridge detection"),
		blocklist: flag.String("block-usb", "",
			"Comma-separated VID:PID pairs to skip during bridge detection (e.g., 1a86:7523)"),
		family:   flag.String("family", string(lfrfid.FamilyT5577), "Tag family: t5577 or t55xx"),
		profiles: flag.String("profiles", "", "YAML file with timing profiles overriding the built-in tables"),
		blocks: flag.String("blocks", "",
			"Comma-separated hex words written to blocks 0..N-1 (e.g., 00148040,FF8A1234,5678ABCD)"),
		data:     flag.String("data", "", "Hex word for a single block write (used with -block)"),
		password: flag.String("password", "", "Hex password; enables password mode"),
		block:    flag.Uint("block", 0, "Block address for a single block write"),
		page:     flag.Uint("page", 0, "Page for a single block write"),
		lock:     flag.Bool("lock", false, "Set the lock bit on a single block write"),
		debug:    flag.Bool("debug", false, "Enable debug output"),
		timeout:  flag.Duration("timeout", 10*time.Second, "Overall timeout"),
	}
	flag.Parse()

	if *cfg.debug {
		lfrfid.SetDebugEnabled(true)
	}
	return cfg
}

func parseHexWord(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid hex word %q: %w", s, err)
	}
	return uint32(v), nil
}

func splitList(s string) []string {
	var out []string
	for _, field := range strings.Split(s, ",") {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out
}

func parseBlocks(s string) (lfrfid.BlockSet, error) {
	var words []uint32
	for _, field := range strings.Split(s, ",") {
		w, err := parseHexWord(field)
		if err != nil {
			return lfrfid.BlockSet{}, err
		}
		words = append(words, w)
	}
	if len(words) > lfrfid.T5577BlockCount {
		return lfrfid.BlockSet{}, fmt.Errorf("at most %d blocks, got %d", lfrfid.T5577BlockCount, len(words))
	}
	return lfrfid.NewBlockSet(words...), nil
}

func resolveProfile(cfg *cliConfig) (lfrfid.TimingProfile, error) {
	family := lfrfid.Family(*cfg.family)
	if *cfg.profiles == "" {
		profile, err := lfrfid.ProfileFor(family)
		if err != nil {
			return lfrfid.TimingProfile{}, fmt.Errorf("failed to select profile: %w", err)
		}
		return profile, nil
	}
	file, err := config.Load(*cfg.profiles)
	if err != nil {
		return lfrfid.TimingProfile{}, err
	}
	profile, err := file.Lookup(family)
	if err != nil {
		return lfrfid.TimingProfile{}, fmt.Errorf("failed to select profile: %w", err)
	}
	return profile, nil
}

// openAntenna returns the antenna and a cleanup func.
func openAntenna(cfg *cliConfig) (lfrfid.Antenna, func(), error) {
	switch *cfg.antenna {
	case "gpio":
		ant, err := gpio.Open(*cfg.carrierPin, *cfg.pullPin)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open GPIO antenna: %w", err)
		}
		_, _ = fmt.Println("Warning: host GPIO timing is best effort; verify writes by reading the tag back")
		return ant, func() {}, nil
	case "bridge":
		portName := *cfg.port
		if portName == "" {
			ports, err := bridge.DetectPorts(bridge.DetectOptions{
				Blocklist:   splitList(*cfg.blocklist),
				IgnorePaths: splitList(*cfg.ignore),
			})
			if err != nil {
				return nil, nil, err
			}
			if len(ports) == 0 {
				return nil, nil, errors.New("no USB serial ports found")
			}
			portName = ports[0].Path
			_, _ = fmt.Printf("Using bridge on %s (%s)\n", portName, ports[0].VIDPID)
		}
		ant, err := bridge.Open(portName)
		if err != nil {
			return nil, nil, err
		}
		return ant, func() { _ = ant.Close() }, nil
	case "dry-run":
		return lfrfid.NewRecorder(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported antenna: %s", *cfg.antenna)
	}
}

func runWrite(ctx context.Context, cfg *cliConfig, w *lfrfid.Writer) error {
	session, err := w.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	var password *uint32
	if *cfg.password != "" {
		pw, err := parseHexWord(*cfg.password)
		if err != nil {
			_ = session.Stop()
			return err
		}
		password = &pw
	}

	writeErr := writeRequested(ctx, cfg, session, password)
	if stopErr := session.Stop(); stopErr != nil && writeErr == nil {
		return fmt.Errorf("failed to stop session: %w", stopErr)
	}
	return writeErr
}

func writeRequested(ctx context.Context, cfg *cliConfig, session *lfrfid.Session, password *uint32) error {
	if *cfg.blocks != "" {
		blocks, err := parseBlocks(*cfg.blocks)
		if err != nil {
			return err
		}
		_, _ = fmt.Printf("Writing %d blocks...\n", blocks.Len())
		if password != nil {
			return session.WriteBatchWithPassword(ctx, blocks, *password)
		}
		return session.WriteBatch(ctx, blocks)
	}

	if *cfg.data == "" {
		return errors.New("nothing to write: use -blocks or -data")
	}
	if *cfg.page > 1 || *cfg.block > lfrfid.MaxBlockAddress {
		return fmt.Errorf("invalid page %d / block %d", *cfg.page, *cfg.block)
	}
	data, err := parseHexWord(*cfg.data)
	if err != nil {
		return err
	}
	req := lfrfid.WriteRequest{
		Page:  uint8(*cfg.page),
		Block: uint8(*cfg.block),
		Lock:  *cfg.lock,
		Data:  data,
	}
	if password != nil {
		req.Password = *password
		req.UsePassword = true
	}
	_, _ = fmt.Printf("Writing %s...\n", req)
	return session.WriteBlock(ctx, req)
}

func printDryRun(rec *lfrfid.Recorder, profile lfrfid.TimingProfile) {
	wave := rec.Waveform()
	_, _ = fmt.Printf("\n=== Dry run: %d segments, %d field gaps, %s ===\n",
		len(wave), wave.Gaps(), time.Duration(wave.Total())*time.Microsecond)
	for i, f := range wave.Frames(&profile) {
		req, reset, err := lfrfid.DecodeFrame(f)
		switch {
		case err != nil:
			_, _ = fmt.Printf("%2d: %v\n", i, err)
		case reset:
			_, _ = fmt.Printf("%2d: reset\n", i)
		default:
			_, _ = fmt.Printf("%2d: %s\n", i, req)
		}
	}

	tag := virtual.NewVirtualT5577()
	if err := tag.Apply(wave, &profile); err != nil {
		_, _ = fmt.Printf("Simulated tag rejected frames: %v\n", err)
	}
	_, _ = fmt.Printf("\n=== Simulated factory T5577 after write (%d accepted, %d rejected) ===\n%s",
		tag.Writes, tag.Rejected, tag)
}

func run(cfg *cliConfig) error {
	profile, err := resolveProfile(cfg)
	if err != nil {
		return err
	}

	antenna, cleanup, err := openAntenna(cfg)
	if err != nil {
		return fmt.Errorf("failed to open antenna: %w", err)
	}
	defer cleanup()

	w, err := lfrfid.NewWriter(antenna, lfrfid.WithProfile(profile))
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *cfg.timeout)
	defer cancel()

	if err := runWrite(ctx, cfg, w); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	_, _ = fmt.Println("Write sequence sent. The tag gives no acknowledgement; read it back to verify.")

	if rec, ok := antenna.(*lfrfid.Recorder); ok {
		printDryRun(rec, profile)
	}
	return nil
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

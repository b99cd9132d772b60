// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestStrip_render(t *testing.T) {
	on := ansi256.Default.Block(ledOn)
	off := ansi256.Default.Block(ledOff)
	for _, tc := range []struct {
		v       uint16
		on, off int
		suffix  string
	}{
		{0x0000, 0, 16, " 0x0000"},
		{0xFFFF, 16, 0, " 0xffff"},
		{0x8001, 2, 14, " 0x8001"},
		{0x1234, 5, 11, " 0x1234"},
	} {
		var buf bytes.Buffer
		s := newStrip(&buf)
		if err := s.render(tc.v); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.HasPrefix(out, "\r") {
			t.Errorf("0x%04x: line must be redrawn in place: %q", tc.v, out)
		}
		if n := strings.Count(out, on); n != tc.on {
			t.Errorf("0x%04x: %d LEDs on, want %d", tc.v, n, tc.on)
		}
		if n := strings.Count(out, off); n != tc.off {
			t.Errorf("0x%04x: %d LEDs off, want %d", tc.v, n, tc.off)
		}
		if !strings.HasSuffix(out, tc.suffix) {
			t.Errorf("0x%04x: got %q", tc.v, out)
		}
	}
}

func TestStrip_bitOrder(t *testing.T) {
	var buf bytes.Buffer
	s := newStrip(&buf)
	if err := s.render(0x8000); err != nil {
		t.Fatal(err)
	}
	on := ansi256.Default.Block(ledOn)
	// Bit 15 is drawn first, right after the reset sequence.
	if !strings.HasPrefix(buf.String(), "\r\033[0m"+on) {
		t.Errorf("bit 15 should be leftmost: %q", buf.String())
	}
	if err := s.halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "\n\033[0m") {
		t.Errorf("halt should end the line: %q", buf.String())
	}
}

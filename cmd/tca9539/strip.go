// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/tca9539/tca9539"
	"github.com/maruel/ansi256"
)

var (
	ledOn  = color.NRGBA{0x00, 0xFF, 0x00, 0xFF}
	ledOff = color.NRGBA{0x30, 0x30, 0x30, 0xFF}
)

// strip draws a 16-bit word as a row of LEDs on an ANSI terminal, bit 15
// leftmost, with a gap between the two ports.
type strip struct {
	w       io.Writer
	palette *ansi256.Palette
	buf     bytes.Buffer
}

func newStrip(w io.Writer) *strip {
	return &strip{w: w, palette: ansi256.Default}
}

// render redraws the current line.
func (s *strip) render(v uint16) error {
	s.buf.Reset()
	_, _ = s.buf.WriteString("\r\033[0m")
	for i := tca9539.NumPins - 1; i >= 0; i-- {
		c := ledOff
		if v&(1<<uint(i)) != 0 {
			c = ledOn
		}
		_, _ = io.WriteString(&s.buf, s.palette.Block(c))
		if i == 8 {
			_, _ = s.buf.WriteString("\033[0m ")
		}
	}
	_, _ = fmt.Fprintf(&s.buf, "\033[0m 0x%04x", v)
	_, err := s.buf.WriteTo(s.w)
	return err
}

// halt resets the colors and ends the line.
func (s *strip) halt() error {
	_, err := s.w.Write([]byte("\n\033[0m"))
	return err
}

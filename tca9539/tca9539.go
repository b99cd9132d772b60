// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tca9539 provides an interface to the Texas Instruments TCA9539
// 16-bit I²C I/O expander with reset and interrupt lines.
//
// # Datasheet
//
// https://www.ti.com/lit/gpn/tca9539
//
// # Notes
//
// The driver keeps a copy of the Output, PolarityInversion and Configuration
// registers and rewrites the full 16-bit register on every change. Input is
// always read from the device.
//
// Pin numbers outside [0, 16) are ignored: setters do nothing and getters
// return false, without error.
//
// A Dev is not safe for concurrent use.
//
// Interrupt driven change notification and the I²C general call software
// reset are not implemented.
//
// Both the per pin gpio.PinIO interface and whole word access are supported.
package tca9539

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
)

// NumPins is the number of I/O pins of the device.
const NumPins = 16

// DefaultAddress is the address with A0 and A1 tied low.
const DefaultAddress uint16 = 0x74

// resetPulse is the low time of the reset line. The datasheet asks for 6ns.
const resetPulse = time.Microsecond

// ErrNotImplemented is returned by features of the chip the driver does not
// support.
var ErrNotImplemented = errors.New("tca9539: not implemented")

// Direction is the mode of a pin as encoded in the Configuration register.
type Direction uint8

const (
	Output Direction = 0
	Input  Direction = 1
)

func (d Direction) String() string {
	if d == Output {
		return "Out"
	}
	return "In"
}

// Opts holds the configuration options.
type Opts struct {
	// Addr is the 7-bit I²C address, 0x74 to 0x77 depending on A0 and A1.
	Addr uint16
	// Reset is the line wired to the active low RESET pin. nil if not wired.
	Reset gpio.PinOut
	// Interrupt is the line wired to the open drain INT pin. nil if not
	// wired.
	Interrupt gpio.PinIn
	// Logger receives register transactions at V(1). Defaults to discard.
	Logger logr.Logger
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr: DefaultAddress,
}

// Dev is a handle to a TCA9539.
type Dev struct {
	// Pins holds the 16 pins, port 0 first.
	Pins [NumPins]Pin

	d     i2c.Dev
	name  string
	reset gpio.PinOut
	intr  gpio.PinIn
	log   logr.Logger

	// registered holds the pin names New registered with gpioreg.
	registered []string

	input    registerMirror
	output   registerMirror
	polarity registerMirror
	config   registerMirror
}

// New returns a handle to a TCA9539 on bus.
//
// No I/O is done; Init must be called before any other method.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Addr > 0x7F {
		return nil, fmt.Errorf("tca9539: invalid address 0x%x, expected a 7-bit address", opts.Addr)
	}
	d := &Dev{
		d:     i2c.Dev{Bus: bus, Addr: opts.Addr},
		name:  "TCA9539_" + strconv.FormatUint(uint64(opts.Addr), 16),
		reset: opts.Reset,
		intr:  opts.Interrupt,
		log:   opts.Logger,
	}
	if d.log.GetSink() == nil {
		d.log = logr.Discard()
	}
	if opts.Addr < 0x74 || opts.Addr > 0x77 {
		d.log.V(1).Info("address not selectable with A0/A1", "addr", opts.Addr)
	}
	for i := range d.Pins {
		p := &portpin{dev: d, number: i}
		d.Pins[i] = p
		// Another device may already own the name; only ours are unregistered.
		if err := gpioreg.Register(p); err == nil {
			d.registered = append(d.registered, p.Name())
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// Init pulses the reset line when wired, configures the interrupt line as an
// input when wired and sets the register mirrors to the power-on values.
//
// The register mirrors are not read back from the device: without a reset
// line they are only correct if the chip was just powered up.
func (d *Dev) Init() error {
	if d.reset != nil {
		if err := d.reset.Out(gpio.Low); err != nil {
			return fmt.Errorf("tca9539: reset: %w", err)
		}
		time.Sleep(resetPulse)
		if err := d.reset.Out(gpio.High); err != nil {
			return fmt.Errorf("tca9539: reset: %w", err)
		}
	}
	if d.intr != nil {
		// TODO: arm edge detection on the INT line and expose it via
		// WaitForChange.
		if err := d.intr.In(gpio.Float, gpio.NoEdge); err != nil {
			return fmt.Errorf("tca9539: interrupt: %w", err)
		}
	}
	d.input.value = defaultInput
	d.output.value = defaultOutput
	d.polarity.value = defaultPolarityInversion
	d.config.value = defaultConfiguration
	d.log.V(1).Info("init", "addr", d.d.Addr, "reset", d.reset != nil, "interrupt", d.intr != nil)
	return nil
}

// Halt implements conn.Resource. The device keeps driving its outputs.
func (d *Dev) Halt() error {
	return nil
}

// Close unregisters the pins New registered with gpioreg.
func (d *Dev) Close() error {
	for len(d.registered) != 0 {
		if err := gpioreg.Unregister(d.registered[0]); err != nil {
			return err
		}
		d.registered = d.registered[1:]
	}
	return nil
}

// SetDirection sets pin as an input or an output.
func (d *Dev) SetDirection(pin int, dir Direction) error {
	if !isValidPin(pin) {
		return nil
	}
	d.config.setBit(pin, dir == Input)
	return d.writeMirror(RegConfiguration, &d.config)
}

// SetPolarityInversion sets whether the input value of pin is inverted.
func (d *Dev) SetPolarityInversion(pin int, invert bool) error {
	if !isValidPin(pin) {
		return nil
	}
	d.polarity.setBit(pin, invert)
	return d.writeMirror(RegPolarityInversion, &d.polarity)
}

// SetPinValue sets the output latch of pin. It has no electrical effect while
// the pin is an input.
func (d *Dev) SetPinValue(pin int, l gpio.Level) error {
	if !isValidPin(pin) {
		return nil
	}
	d.output.setBit(pin, bool(l))
	return d.writeMirror(RegOutput, &d.output)
}

// ReadPinValue reads the Input register from the device and returns the level
// of pin.
func (d *Dev) ReadPinValue(pin int) (gpio.Level, error) {
	if !isValidPin(pin) {
		return gpio.Low, nil
	}
	lo, hi, err := d.readRegister(RegInput)
	d.input.setBytes(lo, hi)
	return gpio.Level(d.input.bit(pin)), err
}

// CheckPinDirection reports whether pin is configured as dir.
//
// Only the cached Configuration register is consulted; changes done to the
// device by another bus master are not seen.
func (d *Dev) CheckPinDirection(pin int, dir Direction) bool {
	if !isValidPin(pin) {
		return false
	}
	return d.config.bit(pin) == (dir == Input)
}

// ReadWord reads the Input register with port 0 in the low byte.
func (d *Dev) ReadWord() (uint16, error) {
	lo, hi, err := d.readRegister(RegInput)
	d.input.setBytes(lo, hi)
	return d.input.value, err
}

// ReadWordBigEndian reads the Input register with port 0 in the high byte.
func (d *Dev) ReadWordBigEndian() (uint16, error) {
	hi, lo, err := d.readRegister(RegInput)
	d.input.setBytes(lo, hi)
	return d.input.value, err
}

// SetWord writes the Output register with the low byte of v to port 0.
func (d *Dev) SetWord(v uint16) error {
	d.output.value = v
	return d.writeRegister(RegOutput, d.output.low(), d.output.high())
}

// SetWordBigEndian writes the Output register with the high byte of v to
// port 0.
func (d *Dev) SetWordBigEndian(v uint16) error {
	d.output.value = v
	return d.writeRegister(RegOutput, d.output.high(), d.output.low())
}

// Mirror returns the cached value of reg. RegInput holds the last word read,
// in the byte order of the read.
func (d *Dev) Mirror(reg Register) uint16 {
	switch reg {
	case RegInput:
		return d.input.value
	case RegOutput:
		return d.output.value
	case RegPolarityInversion:
		return d.polarity.value
	case RegConfiguration:
		return d.config.value
	default:
		return 0
	}
}

// SoftReset would reset the device with the I²C general call. Not
// implemented.
func (d *Dev) SoftReset() error {
	return ErrNotImplemented
}

// WaitForChange would wait for the INT line to signal an input change. Not
// implemented, always returns false.
func (d *Dev) WaitForChange(timeout time.Duration) bool {
	return false
}

func isValidPin(pin int) bool {
	return pin >= 0 && pin < NumPins
}

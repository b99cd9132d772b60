// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tca9539

import (
	"errors"
	"strconv"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin extends gpio.PinIO interface with features supported by the TCA9539.
type Pin interface {
	gpio.PinIO
	pin.PinFunc
	// SetPolarityInverted if set to true, the Input register bit reflects the
	// inverted logic state of the pin.
	SetPolarityInverted(p bool) error
	// IsPolarityInverted returns true if the Input register bit reflects the
	// inverted logic state of the pin.
	IsPolarityInverted() (bool, error)
}

type portpin struct {
	dev    *Dev
	number int
}

func (p *portpin) String() string {
	return p.Name()
}

func (p *portpin) Halt() error {
	// To halt all drive, set to high-impedance input
	return p.In(gpio.Float, gpio.NoEdge)
}

// Name returns the pin name as <device>_P<port>_<bit>.
func (p *portpin) Name() string {
	return p.dev.name + "_P" + strconv.Itoa(p.number/8) + "_" + strconv.Itoa(p.number%8)
}

func (p *portpin) Number() int {
	return p.number
}

func (p *portpin) Function() string {
	return string(p.Func())
}

func (p *portpin) In(pull gpio.Pull, edge gpio.Edge) error {
	switch pull {
	case gpio.PullDown:
		return errors.New("tca9539: PullDown is not supported")
	case gpio.PullUp:
		return errors.New("tca9539: PullUp is not supported")
	case gpio.Float, gpio.PullNoChange:
	}
	if edge != gpio.NoEdge {
		return errors.New("tca9539: edge detection not supported")
	}
	return p.dev.SetDirection(p.number, Input)
}

// Read returns the pin level. A bus error reads as gpio.Low.
func (p *portpin) Read() gpio.Level {
	l, _ := p.dev.ReadPinValue(p.number)
	return l
}

func (p *portpin) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (p *portpin) Pull() gpio.Pull {
	return gpio.Float
}

func (p *portpin) DefaultPull() gpio.Pull {
	return gpio.Float
}

func (p *portpin) Out(l gpio.Level) error {
	if err := p.dev.SetDirection(p.number, Output); err != nil {
		return err
	}
	return p.dev.SetPinValue(p.number, l)
}

func (p *portpin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("tca9539: PWM is not supported")
}

func (p *portpin) Func() pin.Func {
	if p.dev.CheckPinDirection(p.number, Input) {
		return gpio.IN
	}
	return gpio.OUT
}

func (p *portpin) SupportedFuncs() []pin.Func {
	return supportedFuncs[:]
}

func (p *portpin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.dev.SetDirection(p.number, Input)
	case gpio.OUT:
		return p.dev.SetDirection(p.number, Output)
	default:
		return errors.New("tca9539: Function not supported: " + string(f))
	}
}

func (p *portpin) SetPolarityInverted(pol bool) error {
	return p.dev.SetPolarityInversion(p.number, pol)
}

func (p *portpin) IsPolarityInverted() (bool, error) {
	return p.dev.polarity.bit(p.number), nil
}

var supportedFuncs = [...]pin.Func{gpio.IN, gpio.OUT}

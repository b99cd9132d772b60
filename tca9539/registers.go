// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tca9539

import "fmt"

// Register is the command byte selecting a register pair of the device.
//
// Each register is 16 bits wide: the byte at the address holds port 0 (pins
// 0..7) and the byte at address+1 holds port 1 (pins 8..15). The device
// auto-increments within the pair, so a 2-byte transfer covers both ports.
type Register uint8

const (
	RegInput             Register = 0x00 // Input port, read only.
	RegOutput            Register = 0x02 // Output port.
	RegPolarityInversion Register = 0x04 // Polarity inversion of the input port.
	RegConfiguration     Register = 0x06 // Direction, 1 is input.
)

// Power-on values of the register mirrors.
const (
	defaultInput             uint16 = 0x0000
	defaultOutput            uint16 = 0xFFFF
	defaultPolarityInversion uint16 = 0x0000
	defaultConfiguration     uint16 = 0xFFFF
)

func (r Register) String() string {
	switch r {
	case RegInput:
		return "Input"
	case RegOutput:
		return "Output"
	case RegPolarityInversion:
		return "PolarityInversion"
	case RegConfiguration:
		return "Configuration"
	default:
		return fmt.Sprintf("Register(0x%02x)", uint8(r))
	}
}

// registerMirror is the driver's copy of one 16-bit register.
type registerMirror struct {
	value uint16
}

func (m *registerMirror) low() byte {
	return byte(m.value)
}

func (m *registerMirror) high() byte {
	return byte(m.value >> 8)
}

func (m *registerMirror) setBytes(low, high byte) {
	m.value = uint16(low) | uint16(high)<<8
}

func (m *registerMirror) setBit(bit int, value bool) {
	if value {
		m.value |= 1 << uint(bit)
	} else {
		m.value &^= 1 << uint(bit)
	}
}

func (m *registerMirror) bit(bit int) bool {
	return m.value&(1<<uint(bit)) != 0
}

// writeRegister sends the register address followed by the two data bytes.
func (d *Dev) writeRegister(reg Register, first, second byte) error {
	d.log.V(1).Info("write", "reg", reg, "data", []byte{first, second})
	if err := d.d.Tx([]byte{byte(reg), first, second}, nil); err != nil {
		return fmt.Errorf("tca9539: write %s: %w", reg, err)
	}
	return nil
}

// writeMirror sends m to the device, low byte first.
func (d *Dev) writeMirror(reg Register, m *registerMirror) error {
	return d.writeRegister(reg, m.low(), m.high())
}

// readRegister selects reg with an address-only write, then reads the two
// bytes of the pair in a separate transaction. The received bytes are
// returned in bus order. Addresses past RegConfiguration are ignored.
func (d *Dev) readRegister(reg Register) (first, second byte, err error) {
	if reg > RegConfiguration {
		return 0, 0, nil
	}
	if err = d.d.Tx([]byte{byte(reg)}, nil); err != nil {
		return 0, 0, fmt.Errorf("tca9539: select %s: %w", reg, err)
	}
	rx := make([]byte, 2)
	err = d.d.Tx(nil, rx)
	d.log.V(1).Info("read", "reg", reg, "data", rx)
	if err != nil {
		err = fmt.Errorf("tca9539: read %s: %w", reg, err)
	}
	// rx holds whatever the bus transferred, also on failure.
	return rx[0], rx[1], err
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008

import "fmt"

// register is the address of one of the chip's one byte registers, with
// IOCON.BANK=0 (the power-on layout).
type register uint8

const (
	regIODIR   register = 0x00 // direction, 1 = input
	regIPOL    register = 0x01 // input polarity, 1 = inverted
	regGPINTEN register = 0x02 // interrupt on change enable
	regDEFVAL  register = 0x03 // default compare value
	regINTCON  register = 0x04 // 0 = compare against previous value, 1 = against DEFVAL
	regIOCON   register = 0x05 // chip configuration
	regGPPU    register = 0x06 // 100kΩ pull-up enable
	regINTF    register = 0x07 // interrupt flags, read only
	regINTCAP  register = 0x08 // GPIO captured at interrupt time, read only
	regGPIO    register = 0x09 // port value; writes go to OLAT
	regOLAT    register = 0x0a // output latch
)

var registerNames = [...]string{
	"IODIR", "IPOL", "GPINTEN", "DEFVAL", "INTCON", "IOCON", "GPPU", "INTF", "INTCAP", "GPIO", "OLAT",
}

func (r register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return fmt.Sprintf("0x%02x", uint8(r))
}

// readRegister writes the register address and reads back one byte in the
// same bus transaction. The caller must hold d.mu.
func (d *Dev) readRegister(reg register) (uint8, error) {
	var rx [1]byte
	if err := d.d.Tx([]byte{byte(reg)}, rx[:]); err != nil {
		return 0, fmt.Errorf("mcp23008: missing ACK reading %s: %w", reg, err)
	}
	return rx[0], nil
}

// writeRegister is a single two byte write and needs no lock of its own.
func (d *Dev) writeRegister(reg register, value uint8) error {
	if err := d.d.Tx([]byte{byte(reg), value}, nil); err != nil {
		return fmt.Errorf("mcp23008: missing ACK writing %s: %w", reg, err)
	}
	return nil
}

// read returns the current value of reg. Nothing is cached; the chip is the
// only copy of its registers.
func (d *Dev) read(reg register) (uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRegister(reg)
}

// update clears the bits in clear, then sets the bits in set, as one locked
// read-modify-write. The write is skipped if the value is unchanged.
func (d *Dev) update(reg register, set, clear uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	nv := (v &^ clear) | set
	if nv == v {
		return nil
	}
	return d.writeRegister(reg, nv)
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Bus speeds supported by the chip. The value is handed to the bus as is; it
// is up to the bus driver to support it.
const (
	StandardMode  physic.Frequency = 100 * physic.KiloHertz
	FastMode      physic.Frequency = 400 * physic.KiloHertz
	HighSpeedMode physic.Frequency = 1700 * physic.KiloHertz
)

// Pin is a bit mask of expander pins. A single bit selects one pin, several
// bits select a set of pins.
type Pin uint8

const (
	GP0 Pin = 1 << iota
	GP1
	GP2
	GP3
	GP4
	GP5
	GP6
	GP7

	AllPins Pin = 0xff
)

const (
	// wireBase is the fixed part of the address byte sent on the bus, with
	// the R/W bit in bit 0.
	wireBase uint8 = 0x40
	// maxAddress is the highest value the A2..A0 straps can encode.
	maxAddress uint8 = 7
)

var (
	// ErrAddressRange is returned by New when Opts.Address does not fit in
	// the three address straps.
	ErrAddressRange = errors.New("mcp23008: address is out of range, must be <= 7")
	// ErrPullDown is returned when a pull-down is requested. The chip only
	// has pull-ups.
	ErrPullDown = errors.New("mcp23008: PullDown is not supported")
	// ErrPinMask is returned when a pin view is requested for a mask that
	// does not name exactly one pin.
	ErrPinMask = errors.New("mcp23008: pin view needs exactly one pin")
	// ErrEdge is returned when edge detection is requested on a pin. The
	// chip signals changes on its INT line, which has to be wired to a host
	// pin.
	ErrEdge = errors.New("mcp23008: edge detection not supported")
	// ErrPWM is returned by PWM.
	ErrPWM = errors.New("mcp23008: PWM is not supported")
)

// Opts holds the configuration options.
type Opts struct {
	// Address is the value of the A2..A0 address straps, 0 to 7.
	Address uint8
	// Speed is passed to the bus SetSpeed. Zero leaves the bus speed alone.
	Speed physic.Frequency
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Address: 0,
	Speed:   StandardMode,
}

// Dev is a handle to an MCP23008 8-bit I²C I/O expander.
//
// The chip holds all the state; Dev keeps no copy of any register. Operations
// that read a register and write it back hold a lock for the duration, but
// sequences of separate calls are not atomic with respect to each other.
type Dev struct {
	d  i2c.Dev
	mu sync.Mutex
}

// New returns a handle to an MCP23008 connected on an I²C bus. The chip is
// reset: all pins are set to input and every other register is cleared.
//
// A nil opts uses DefaultOpts.
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Address > maxAddress {
		return nil, ErrAddressRange
	}
	if opts.Speed != 0 {
		if err := bus.SetSpeed(opts.Speed); err != nil {
			return nil, fmt.Errorf("mcp23008: %w", err)
		}
	}
	d := &Dev{d: i2c.Dev{Bus: bus, Addr: uint16(wireBase>>1 | opts.Address)}}
	if err := d.reset(); err != nil {
		return nil, err
	}
	return d, nil
}

// String returns the chip name and its 7-bit address.
func (d *Dev) String() string {
	return fmt.Sprintf("MCP23008_%x", d.d.Addr)
}

// Addr returns the 7-bit I²C address of the chip.
func (d *Dev) Addr() uint16 {
	return d.d.Addr
}

// WireAddr returns the address byte as sent on the bus for a write, that is
// the 7-bit address shifted left by one.
func (d *Dev) WireAddr() uint8 {
	return uint8(d.d.Addr << 1)
}

// Halt implements conn.Resource.
//
// It sets all pins to input so nothing is driven.
func (d *Dev) Halt() error {
	return d.SetInputPins(AllPins)
}

// reset puts the chip in its power-on state.
func (d *Dev) reset() error {
	if err := d.writeRegister(regIODIR, 0xff); err != nil {
		return err
	}
	for reg := regIPOL; reg <= regOLAT; reg++ {
		if err := d.writeRegister(reg, 0); err != nil {
			return err
		}
	}
	return nil
}

// SetInputPins sets the pins in the mask to input. Other pins keep their
// direction, so successive calls add to the set of inputs.
func (d *Dev) SetInputPins(pins Pin) error {
	return d.update(regIODIR, uint8(pins), 0)
}

// SetOutputPins sets the pins in the mask to output. Other pins keep their
// direction.
//
// SetInputPins and SetOutputPins each lock their own update, but calling
// them concurrently from several goroutines on overlapping masks leaves the
// resulting direction undefined.
func (d *Dev) SetOutputPins(pins Pin) error {
	return d.update(regIODIR, 0, uint8(pins))
}

// Directions returns the IODIR register. A 1 bit is an input.
func (d *Dev) Directions() (uint8, error) {
	return d.read(regIODIR)
}

// WriteOutputs writes the output latch through the GPIO register. Bits of
// pins configured as input are stored but not driven.
func (d *Dev) WriteOutputs(values uint8) error {
	return d.writeRegister(regGPIO, values)
}

// ReadOutputs returns the OLAT register: the last values written, not the
// level on the pins.
func (d *Dev) ReadOutputs() (uint8, error) {
	return d.read(regOLAT)
}

// ReadInputs returns the GPIO register: the level of input pins, after
// polarity inversion, and the latch of output pins.
func (d *Dev) ReadInputs() (uint8, error) {
	return d.read(regGPIO)
}

// SetInputPolarity sets the IPOL register. A 1 bit inverts the value read
// from the corresponding input pin.
func (d *Dev) SetInputPolarity(values uint8) error {
	return d.writeRegister(regIPOL, values)
}

// InputPolarity returns the IPOL register.
func (d *Dev) InputPolarity() (uint8, error) {
	return d.read(regIPOL)
}

// SetPullups sets the GPPU register. A 1 bit enables the 100kΩ pull-up of the
// corresponding pin.
func (d *Dev) SetPullups(values uint8) error {
	return d.writeRegister(regGPPU, values)
}

// Pullups returns the GPPU register.
func (d *Dev) Pullups() (uint8, error) {
	return d.read(regGPPU)
}

// InterruptOnChanges enables interrupt generation when any of the pins
// changes from its previous value. The INT output is active low.
//
// AcknowledgeInterrupt must be called after each interrupt, otherwise the chip
// won't raise another one.
func (d *Dev) InterruptOnChanges(pins Pin) error {
	if err := d.update(regINTCON, 0, uint8(pins)); err != nil {
		return err
	}
	return d.update(regGPINTEN, uint8(pins), 0)
}

// DisableInterrupts disables interrupt generation for the pins.
func (d *Dev) DisableInterrupts(pins Pin) error {
	return d.update(regGPINTEN, 0, uint8(pins))
}

// AcknowledgeInterrupt returns the pins that raised the interrupt (INTF) and
// the port value captured when it happened (INTCAP). Reading INTCAP re-arms
// the interrupt.
func (d *Dev) AcknowledgeInterrupt() (Pin, uint8, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	flags, err := d.readRegister(regINTF)
	if err != nil {
		return 0, 0, err
	}
	captured, err := d.readRegister(regINTCAP)
	if err != nil {
		return 0, 0, err
	}
	return Pin(flags), captured, nil
}

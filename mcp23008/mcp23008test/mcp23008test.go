// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23008test implements an in-memory MCP23008 that can be used as
// an i2c.Bus in tests.
//
// Chip models the register file, the port pins as driven from outside, and
// interrupt on change. Unlike i2ctest.Playback it doesn't need the exact
// sequence of transactions to be known up front.
package mcp23008test

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// Register addresses, IOCON.BANK=0.
const (
	IODIR   uint8 = 0x00
	IPOL    uint8 = 0x01
	GPINTEN uint8 = 0x02
	DEFVAL  uint8 = 0x03
	INTCON  uint8 = 0x04
	IOCON   uint8 = 0x05
	GPPU    uint8 = 0x06
	INTF    uint8 = 0x07
	INTCAP  uint8 = 0x08
	GPIO    uint8 = 0x09
	OLAT    uint8 = 0x0a

	numRegisters = 11
)

// ErrNoAck is returned by Tx when the chip is addressed at another address
// or when Chip.Fail is set.
var ErrNoAck = errors.New("mcp23008test: no ACK")

// Chip is a model of an MCP23008 on an I²C bus. The zero value is not
// usable, use NewChip.
type Chip struct {
	// Addr is the 7-bit address the chip answers to.
	Addr uint16

	mu sync.Mutex
	// ops records every transaction addressed to the chip, failed or not.
	ops   []i2ctest.IO
	speed physic.Frequency
	fail  bool

	regs [numRegisters]uint8
	// ext is the level applied on each pin from outside; bits in undriven
	// are not driven and read high if their pull-up is on, low otherwise.
	ext      uint8
	undriven uint8
	// prev is the port value at the last interrupt evaluation.
	prev uint8
}

// NewChip returns a chip in its power-on state: all pins inputs, nothing
// driven.
func NewChip(addr uint16) *Chip {
	c := &Chip{Addr: addr, undriven: 0xff}
	c.regs[IODIR] = 0xff
	return c
}

func (c *Chip) String() string {
	return fmt.Sprintf("mcp23008test(%#x)", c.Addr)
}

// SetSpeed records the requested bus speed.
func (c *Chip) SetSpeed(f physic.Frequency) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = f
	return nil
}

// Speed returns the last speed passed to SetSpeed.
func (c *Chip) Speed() physic.Frequency {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// Fail makes every following transaction fail with ErrNoAck while on is
// true.
func (c *Chip) Fail(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = on
}

// Ops returns a copy of the transactions seen so far.
func (c *Chip) Ops() []i2ctest.IO {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]i2ctest.IO(nil), c.ops...)
}

// Tx implements i2c.Bus. A write of one byte sets the register pointer, the
// following bytes are written to successive registers; r is then filled from
// successive registers.
func (c *Chip) Tx(addr uint16, w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if addr != c.Addr {
		return ErrNoAck
	}
	op := i2ctest.IO{Addr: addr, W: append([]byte(nil), w...)}
	defer func() {
		op.R = append([]byte(nil), r...)
		c.ops = append(c.ops, op)
	}()
	if c.fail {
		return ErrNoAck
	}
	if len(w) == 0 {
		return errors.New("mcp23008test: no register address")
	}
	reg := w[0]
	for _, b := range w[1:] {
		if reg >= numRegisters {
			return ErrNoAck
		}
		c.write(reg, b)
		reg++
	}
	for i := range r {
		if reg >= numRegisters {
			return ErrNoAck
		}
		r[i] = c.read(reg)
		reg++
	}
	return nil
}

func (c *Chip) write(reg, v uint8) {
	switch reg {
	case INTF, INTCAP:
		// Read only.
	case GPIO:
		c.regs[OLAT] = v
	default:
		c.regs[reg] = v
	}
	c.evaluate()
}

func (c *Chip) read(reg uint8) uint8 {
	switch reg {
	case GPIO:
		v := c.port()
		c.regs[INTF] = 0
		return v
	case INTCAP:
		v := c.regs[INTCAP]
		c.regs[INTF] = 0
		c.evaluate()
		return v
	default:
		return c.regs[reg]
	}
}

// levels returns the electrical level of each pin.
func (c *Chip) levels() uint8 {
	in := c.regs[IODIR]
	driven := (c.ext &^ c.undriven) | (c.regs[GPPU] & c.undriven)
	return (c.regs[OLAT] &^ in) | (driven & in)
}

// port returns the value of the GPIO register.
func (c *Chip) port() uint8 {
	return c.levels() ^ (c.regs[IPOL] & c.regs[IODIR])
}

// evaluate raises interrupt flags for enabled input pins that changed. While
// INTF is non-zero, INTCAP holds the port value of the first interrupt.
func (c *Chip) evaluate() {
	p := c.port()
	ref := (c.prev &^ c.regs[INTCON]) | (c.regs[DEFVAL] & c.regs[INTCON])
	changed := (p ^ ref) & c.regs[GPINTEN] & c.regs[IODIR]
	if changed != 0 && c.regs[INTF] == 0 {
		c.regs[INTF] = changed
		c.regs[INTCAP] = p
	}
	c.prev = p
}

// Drive applies levels to the pins in mask from outside, as a switch or
// another chip would. Pins configured as output are not affected until they
// become inputs.
func (c *Chip) Drive(levels, mask uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ext = (c.ext &^ mask) | (levels & mask)
	c.undriven &^= mask
	c.evaluate()
}

// Release stops driving the pins in mask.
func (c *Chip) Release(mask uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.undriven |= mask
	c.evaluate()
}

// Levels returns the electrical level of each pin.
func (c *Chip) Levels() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levels()
}

// Register returns the content of a register without side effects.
func (c *Chip) Register(reg uint8) uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if reg == GPIO {
		return c.port()
	}
	return c.regs[reg]
}

// SetRegister changes a register without going through the bus, as another
// master on the bus would.
func (c *Chip) SetRegister(reg, v uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regs[reg] = v
	c.evaluate()
}

var _ i2c.Bus = &Chip{}

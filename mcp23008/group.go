// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// pinGroup is a set of pins read and written in one operation.
type pinGroup struct {
	dev         *Dev
	pins        []*InputOutput
	defaultMask gpio.GPIOValue
}

// Group returns a gpio.Group made up of the pins with the given numbers,
// 0 to 7. Bit n of a group value is the pin at offset n in numbers.
//
// Unlike single pin views, Out and Read hold the device lock for the whole
// update, so writes through a group don't lose concurrent updates of other
// pins made through groups.
func (d *Dev) Group(numbers ...int) (gpio.Group, error) {
	if len(numbers) == 0 {
		return nil, fmt.Errorf("mcp23008: empty pin group")
	}
	pg := &pinGroup{dev: d, pins: make([]*InputOutput, len(numbers))}
	seen := uint8(0)
	for ix, number := range numbers {
		if number < 0 || number > 7 {
			return nil, fmt.Errorf("mcp23008: invalid pin number %d", number)
		}
		if seen&(1<<number) != 0 {
			return nil, fmt.Errorf("mcp23008: pin %d appears twice in group", number)
		}
		seen |= 1 << number
		pg.pins[ix] = &InputOutput{p: pinCore{dev: d, mask: Pin(1 << number)}}
	}
	pg.defaultMask = gpio.GPIOValue((1 << len(numbers)) - 1)
	return pg, nil
}

// Pins returns the group's pins, in the order given to Dev.Group.
func (pg *pinGroup) Pins() []pin.Pin {
	pins := make([]pin.Pin, len(pg.pins))
	for ix, p := range pg.pins {
		pins[ix] = p
	}
	return pins
}

// ByOffset returns the pin at offset in the group, or nil.
func (pg *pinGroup) ByOffset(offset int) pin.Pin {
	if offset < 0 || offset >= len(pg.pins) {
		return nil
	}
	return pg.pins[offset]
}

// ByName returns the pin named name, or nil.
func (pg *pinGroup) ByName(name string) pin.Pin {
	for _, p := range pg.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// ByNumber returns the pin GP<number> if it is part of the group, or nil.
func (pg *pinGroup) ByNumber(number int) pin.Pin {
	for _, p := range pg.pins {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

// devMask converts a group relative value into the port value.
func (pg *pinGroup) devMask(value gpio.GPIOValue) uint8 {
	m := uint8(0)
	for ix, p := range pg.pins {
		if value&(1<<ix) != 0 {
			m |= uint8(p.p.mask)
		}
	}
	return m
}

func (pg *pinGroup) mask(mask gpio.GPIOValue) gpio.GPIOValue {
	if mask == 0 {
		return pg.defaultMask
	}
	return mask & pg.defaultMask
}

// Out writes value to the pins of the group selected by mask. If mask is 0,
// all pins of the group are written. Pins that are not outputs are switched
// to output first.
func (pg *pinGroup) Out(value, mask gpio.GPIOValue) error {
	mask = pg.mask(mask)
	wrMask := pg.devMask(mask)
	wr := pg.devMask(value & mask)

	d := pg.dev
	d.mu.Lock()
	defer d.mu.Unlock()
	dir, err := d.readRegister(regIODIR)
	if err != nil {
		return err
	}
	if dir&wrMask != 0 {
		if err := d.writeRegister(regIODIR, dir&^wrMask); err != nil {
			return err
		}
	}
	current, err := d.readRegister(regOLAT)
	if err != nil {
		return err
	}
	return d.writeRegister(regGPIO, (current&^wrMask)|wr)
}

// Read returns the state of the pins of the group selected by mask. If mask
// is 0, all pins of the group are read. Pins that are not inputs are switched
// to input first.
func (pg *pinGroup) Read(mask gpio.GPIOValue) (gpio.GPIOValue, error) {
	mask = pg.mask(mask)
	rdMask := pg.devMask(mask)

	d := pg.dev
	d.mu.Lock()
	defer d.mu.Unlock()
	dir, err := d.readRegister(regIODIR)
	if err != nil {
		return 0, err
	}
	if dir&rdMask != rdMask {
		if err := d.writeRegister(regIODIR, dir|rdMask); err != nil {
			return 0, err
		}
	}
	v, err := d.readRegister(regGPIO)
	if err != nil {
		return 0, err
	}
	result := gpio.GPIOValue(0)
	for ix, p := range pg.pins {
		if mask&(1<<ix) != 0 && v&uint8(p.p.mask) != 0 {
			result |= 1 << ix
		}
	}
	return result, nil
}

// WaitForEdge is not implemented. The chip signals changes on its INT line,
// which has to be watched through a host pin; use Dev.AcknowledgeInterrupt
// to find which pins changed.
func (pg *pinGroup) WaitForEdge(timeout time.Duration) (number int, edge gpio.Edge, err error) {
	return -1, gpio.NoEdge, gpio.ErrGroupFeatureNotImplemented
}

// Halt sets the group's pins to input.
func (pg *pinGroup) Halt() error {
	return pg.dev.update(regIODIR, pg.devMask(pg.defaultMask), 0)
}

// String returns the device name and the pin numbers of the group.
func (pg *pinGroup) String() string {
	s := fmt.Sprintf("%s - [ ", pg.dev)
	for _, p := range pg.pins {
		s += fmt.Sprintf("%d ", p.Number())
	}
	s += "]"
	return s
}

var _ gpio.Group = &pinGroup{}

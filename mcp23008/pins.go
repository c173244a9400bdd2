// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008

import (
	"errors"
	"fmt"
	"log"
	"math/bits"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// The pin views below hold a pointer to the Dev they were created from; the
// Dev must outlive them. A view doesn't remember its direction: the direction
// is whatever IODIR currently holds, so two views of different roles over the
// same pin step on each other.

// pinCore holds the primitives shared by all the views.
type pinCore struct {
	dev  *Dev
	mask Pin
}

func newPinCore(dev *Dev, p Pin) (pinCore, error) {
	if bits.OnesCount8(uint8(p)) != 1 {
		return pinCore{}, ErrPinMask
	}
	return pinCore{dev: dev, mask: p}, nil
}

func (p pinCore) name() string {
	return fmt.Sprintf("%s_GP%d", p.dev, p.number())
}

func (p pinCore) number() int {
	return bits.TrailingZeros8(uint8(p.mask))
}

func (p pinCore) level() (gpio.Level, error) {
	v, err := p.dev.ReadInputs()
	if err != nil {
		return gpio.Low, err
	}
	return v&uint8(p.mask) != 0, nil
}

// read is level for the gpio interfaces, which can't return an error.
func (p pinCore) read() gpio.Level {
	l, err := p.level()
	if err != nil {
		log.Println(err)
	}
	return l
}

// write updates this pin's bit of the output latch. The read and the write
// are two separate bus operations, so concurrent writes to other pins of the
// same chip through other views may be lost.
func (p pinCore) write(l gpio.Level) error {
	outputs, err := p.dev.ReadOutputs()
	if err != nil {
		return err
	}
	if l {
		outputs |= uint8(p.mask)
	} else {
		outputs &^= uint8(p.mask)
	}
	return p.dev.WriteOutputs(outputs)
}

func (p pinCore) mode(pull gpio.Pull) error {
	switch pull {
	case gpio.PullDown:
		return ErrPullDown
	case gpio.PullUp:
		return p.dev.update(regGPPU, uint8(p.mask), 0)
	case gpio.Float:
		return p.dev.update(regGPPU, 0, uint8(p.mask))
	case gpio.PullNoChange:
		return nil
	default:
		return fmt.Errorf("mcp23008: unknown pull %s", pull)
	}
}

func (p pinCore) pull() gpio.Pull {
	v, err := p.dev.Pullups()
	if err != nil {
		log.Println(err)
		return gpio.PullNoChange
	}
	if v&uint8(p.mask) != 0 {
		return gpio.PullUp
	}
	return gpio.Float
}

func (p pinCore) input() error {
	return p.dev.SetInputPins(p.mask)
}

func (p pinCore) output() error {
	return p.dev.SetOutputPins(p.mask)
}

func (p pinCore) in(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return ErrEdge
	}
	if err := p.mode(pull); err != nil {
		return err
	}
	return p.input()
}

func (p pinCore) fn() pin.Func {
	v, err := p.dev.Directions()
	if err != nil {
		log.Println(err)
		return pin.FuncNone
	}
	if v&uint8(p.mask) != 0 {
		return gpio.IN
	}
	return gpio.OUT
}

// Input is a single expander pin used as an input. It implements gpio.PinIn.
type Input struct {
	p pinCore
}

// AsInput sets the pin to input and returns a view of it.
func (d *Dev) AsInput(p Pin) (*Input, error) {
	c, err := newPinCore(d, p)
	if err != nil {
		return nil, err
	}
	if err := c.input(); err != nil {
		return nil, err
	}
	return &Input{p: c}, nil
}

func (in *Input) String() string {
	return in.p.name()
}

// Halt implements conn.Resource. The pin is already high impedance.
func (in *Input) Halt() error {
	return nil
}

func (in *Input) Name() string {
	return in.p.name()
}

func (in *Input) Number() int {
	return in.p.number()
}

// Function implements pin.Pin.
func (in *Input) Function() string {
	return string(gpio.IN)
}

// In implements gpio.PinIn. Only gpio.NoEdge is accepted.
func (in *Input) In(pull gpio.Pull, edge gpio.Edge) error {
	return in.p.in(pull, edge)
}

// Read returns the pin level from the GPIO register. Polarity inversion is
// applied by the chip. A bus error is logged and reads as gpio.Low.
func (in *Input) Read() gpio.Level {
	return in.p.read()
}

// Level is Read with the bus error returned.
func (in *Input) Level() (gpio.Level, error) {
	return in.p.level()
}

// WaitForEdge always returns false.
func (in *Input) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (in *Input) Pull() gpio.Pull {
	return in.p.pull()
}

func (in *Input) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Mode enables (gpio.PullUp) or disables (gpio.Float) the pin's pull-up.
// gpio.PullDown fails with ErrPullDown without touching the chip.
func (in *Input) Mode(pull gpio.Pull) error {
	return in.p.mode(pull)
}

// IsConnected always returns true.
func (in *Input) IsConnected() bool {
	return true
}

// Output is a single expander pin used as an output. It implements
// gpio.PinOut.
type Output struct {
	p pinCore
}

// AsOutput sets the pin to output and returns a view of it.
func (d *Dev) AsOutput(p Pin) (*Output, error) {
	c, err := newPinCore(d, p)
	if err != nil {
		return nil, err
	}
	if err := c.output(); err != nil {
		return nil, err
	}
	return &Output{p: c}, nil
}

func (out *Output) String() string {
	return out.p.name()
}

// Halt implements conn.Resource. The pin keeps driving its last level.
func (out *Output) Halt() error {
	return nil
}

func (out *Output) Name() string {
	return out.p.name()
}

func (out *Output) Number() int {
	return out.p.number()
}

// Function implements pin.Pin.
func (out *Output) Function() string {
	return string(gpio.OUT)
}

// Out implements gpio.PinOut.
func (out *Output) Out(l gpio.Level) error {
	return out.p.write(l)
}

// Write sets the pin's bit of the output latch, leaving the other bits as
// they are.
func (out *Output) Write(l gpio.Level) error {
	return out.p.write(l)
}

// Read returns the level on the pin as seen by the GPIO register.
func (out *Output) Read() gpio.Level {
	return out.p.read()
}

func (out *Output) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrPWM
}

// IsConnected always returns true.
func (out *Output) IsConnected() bool {
	return true
}

// InputOutput is a single expander pin whose direction can be changed. It
// implements gpio.PinIO and is an output when created.
type InputOutput struct {
	p pinCore
}

// AsInputOutput sets the pin to output and returns a bidirectional view of
// it.
func (d *Dev) AsInputOutput(p Pin) (*InputOutput, error) {
	c, err := newPinCore(d, p)
	if err != nil {
		return nil, err
	}
	if err := c.output(); err != nil {
		return nil, err
	}
	return &InputOutput{p: c}, nil
}

func (io *InputOutput) String() string {
	return io.p.name()
}

// Halt implements conn.Resource. To stop driving, the pin is set to input.
func (io *InputOutput) Halt() error {
	return io.p.input()
}

func (io *InputOutput) Name() string {
	return io.p.name()
}

func (io *InputOutput) Number() int {
	return io.p.number()
}

// Function implements pin.Pin.
func (io *InputOutput) Function() string {
	return string(io.Func())
}

// Func implements pin.PinFunc from the IODIR register.
func (io *InputOutput) Func() pin.Func {
	return io.p.fn()
}

// SupportedFuncs implements pin.PinFunc.
func (io *InputOutput) SupportedFuncs() []pin.Func {
	return supportedFuncs[:]
}

// SetFunc implements pin.PinFunc.
func (io *InputOutput) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return io.p.input()
	case gpio.OUT:
		return io.p.output()
	default:
		return errors.New("mcp23008: function not supported: " + string(f))
	}
}

// In implements gpio.PinIn: it sets the pull and switches the pin to input.
func (io *InputOutput) In(pull gpio.Pull, edge gpio.Edge) error {
	return io.p.in(pull, edge)
}

// Read returns the pin level from the GPIO register. A bus error is logged
// and reads as gpio.Low.
func (io *InputOutput) Read() gpio.Level {
	return io.p.read()
}

// Level is Read with the bus error returned.
func (io *InputOutput) Level() (gpio.Level, error) {
	return io.p.level()
}

// WaitForEdge always returns false.
func (io *InputOutput) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (io *InputOutput) Pull() gpio.Pull {
	return io.p.pull()
}

func (io *InputOutput) DefaultPull() gpio.Pull {
	return gpio.Float
}

// Out implements gpio.PinOut: it switches the pin to output, then sets its
// level.
func (io *InputOutput) Out(l gpio.Level) error {
	if err := io.p.output(); err != nil {
		return err
	}
	return io.p.write(l)
}

// Write sets the pin's bit of the output latch without touching the
// direction.
func (io *InputOutput) Write(l gpio.Level) error {
	return io.p.write(l)
}

func (io *InputOutput) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrPWM
}

// Mode enables (gpio.PullUp) or disables (gpio.Float) the pin's pull-up.
func (io *InputOutput) Mode(pull gpio.Pull) error {
	return io.p.mode(pull)
}

// Input switches the pin to input.
func (io *InputOutput) Input() error {
	return io.p.input()
}

// Output switches the pin to output.
func (io *InputOutput) Output() error {
	return io.p.output()
}

// IsConnected always returns true.
func (io *InputOutput) IsConnected() bool {
	return true
}

var supportedFuncs = [...]pin.Func{gpio.IN, gpio.OUT}

var _ gpio.PinIn = &Input{}
var _ gpio.PinOut = &Output{}
var _ gpio.PinIO = &InputOutput{}
var _ pin.PinFunc = &InputOutput{}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

func TestChip_powerOn(t *testing.T) {
	c := NewChip(0x20)
	assert.Equal(t, uint8(0xff), c.Register(IODIR))
	for reg := IPOL; reg <= OLAT; reg++ {
		assert.Equal(t, uint8(0), c.Register(reg), "register %#x", reg)
	}
	assert.Empty(t, c.Ops())
}

func TestChip_wrongAddress(t *testing.T) {
	c := NewChip(0x20)
	err := c.Tx(0x21, []byte{IODIR}, make([]byte, 1))
	assert.ErrorIs(t, err, ErrNoAck)
	assert.Empty(t, c.Ops())
}

func TestChip_fail(t *testing.T) {
	c := NewChip(0x20)
	c.Fail(true)
	assert.ErrorIs(t, c.Tx(0x20, []byte{OLAT, 0x01}, nil), ErrNoAck)
	assert.Equal(t, uint8(0), c.Register(OLAT))
	c.Fail(false)
	require.NoError(t, c.Tx(0x20, []byte{OLAT, 0x01}, nil))
	assert.Equal(t, uint8(0x01), c.Register(OLAT))
	assert.Len(t, c.Ops(), 2)
}

func TestChip_speed(t *testing.T) {
	c := NewChip(0x20)
	require.NoError(t, c.SetSpeed(400*physic.KiloHertz))
	assert.Equal(t, 400*physic.KiloHertz, c.Speed())
}

func TestChip_gpioWritesLatch(t *testing.T) {
	c := NewChip(0x20)
	require.NoError(t, c.Tx(0x20, []byte{IODIR, 0xf0}, nil))
	require.NoError(t, c.Tx(0x20, []byte{GPIO, 0xa5}, nil))
	assert.Equal(t, uint8(0xa5), c.Register(OLAT))
	// Only the low nibble is driven by the latch.
	assert.Equal(t, uint8(0x05), c.Levels())

	r := make([]byte, 1)
	require.NoError(t, c.Tx(0x20, []byte{GPIO}, r))
	assert.Equal(t, uint8(0x05), r[0])
}

func TestChip_inputs(t *testing.T) {
	c := NewChip(0x20)
	c.Drive(0x81, 0x83)
	assert.Equal(t, uint8(0x81), c.Register(GPIO))

	// Pull-ups lift undriven pins.
	c.SetRegister(GPPU, 0x10)
	assert.Equal(t, uint8(0x91), c.Register(GPIO))

	// Polarity inverts inputs only.
	c.SetRegister(IPOL, 0x01)
	assert.Equal(t, uint8(0x90), c.Register(GPIO))

	c.Release(0x80)
	assert.Equal(t, uint8(0x10), c.Register(GPIO))
}

func TestChip_sequentialAccess(t *testing.T) {
	c := NewChip(0x20)
	require.NoError(t, c.Tx(0x20, []byte{IPOL, 0x01, 0x02, 0x03}, nil))
	r := make([]byte, 3)
	require.NoError(t, c.Tx(0x20, []byte{IPOL}, r))
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, r)

	assert.ErrorIs(t, c.Tx(0x20, []byte{OLAT}, make([]byte, 2)), ErrNoAck)
}

func TestChip_interruptOnChange(t *testing.T) {
	c := NewChip(0x20)
	c.Drive(0x00, 0xff)
	require.NoError(t, c.Tx(0x20, []byte{GPINTEN, 0x03}, nil))

	c.Drive(0x02, 0x02)
	assert.Equal(t, uint8(0x02), c.Register(INTF))
	assert.Equal(t, uint8(0x02), c.Register(INTCAP))

	// Further changes don't overwrite the capture until it is read.
	c.Drive(0x03, 0x01)
	assert.Equal(t, uint8(0x02), c.Register(INTF))
	assert.Equal(t, uint8(0x02), c.Register(INTCAP))

	r := make([]byte, 1)
	require.NoError(t, c.Tx(0x20, []byte{INTCAP}, r))
	assert.Equal(t, uint8(0x02), r[0])
	assert.Equal(t, uint8(0), c.Register(INTF))

	// Pins not enabled don't raise flags.
	c.Drive(0x80, 0x80)
	assert.Equal(t, uint8(0), c.Register(INTF))
}

func TestChip_interruptOnDefVal(t *testing.T) {
	c := NewChip(0x20)
	c.Drive(0x01, 0x01)
	c.SetRegister(DEFVAL, 0x01)
	c.SetRegister(INTCON, 0x01)
	require.NoError(t, c.Tx(0x20, []byte{GPINTEN, 0x01}, nil))
	assert.Equal(t, uint8(0), c.Register(INTF))

	c.Drive(0x00, 0x01)
	assert.Equal(t, uint8(0x01), c.Register(INTF))
	assert.Equal(t, uint8(0x00), c.Register(INTCAP))
}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanBionicSystems/expander/mcp23008"
	"github.com/GermanBionicSystems/expander/mcp23008/mcp23008test"
)

func newDev(t *testing.T) (*mcp23008.Dev, *mcp23008test.Chip) {
	chip := mcp23008test.NewChip(0x22)
	d, err := mcp23008.New(chip, &mcp23008.Opts{Address: 2})
	require.NoError(t, err)
	return d, chip
}

func TestRun(t *testing.T) {
	d, chip := newDev(t)
	var buf bytes.Buffer
	args := strings.Fields("out 0x0f write 0x05 pullup 0xf0 polarity 0x80 read")
	require.NoError(t, run(d, &buf, 0, args))

	assert.Equal(t, uint8(0xf0), chip.Register(mcp23008test.IODIR))
	assert.Equal(t, uint8(0x05), chip.Register(mcp23008test.OLAT))
	assert.Equal(t, uint8(0xf0), chip.Register(mcp23008test.GPPU))
	assert.Equal(t, uint8(0x80), chip.Register(mcp23008test.IPOL))

	// GP7 is inverted, pulled up and undriven so reads low; GP4..GP6 read high.
	expected := "" +
		"GPIO   0x75 01110101\n" +
		"OLAT   0x05 00000101\n" +
		"IODIR  0xf0 11110000\n" +
		"GPPU   0xf0 11110000\n" +
		"IPOL   0x80 10000000\n"
	assert.Equal(t, expected, buf.String())
}

func TestRun_errors(t *testing.T) {
	d, _ := newDev(t)
	var buf bytes.Buffer
	assert.ErrorContains(t, run(d, &buf, 0, []string{"write"}), "missing argument")
	assert.ErrorContains(t, run(d, &buf, 0, []string{"write", "0x100"}), "invalid value")
	assert.ErrorContains(t, run(d, &buf, 0, []string{"blink", "1"}), "unknown command")
	assert.Empty(t, buf.String())
}

func TestRun_watch(t *testing.T) {
	d, chip := newDev(t)
	chip.Drive(0x81, 0x81)
	var buf bytes.Buffer
	require.NoError(t, run(d, &buf, 0, []string{"watch", "2"}))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "0x81"))
	assert.True(t, strings.HasSuffix(out, "\n\033[0m"))
}

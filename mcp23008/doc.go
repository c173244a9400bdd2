// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23008 provides a driver for the Microchip MCP23008 8-bit I²C
// GPIO expander.
//
// The chip has eleven one byte registers. Dev exposes them as operations on
// pin masks: direction, output latch, input polarity, pull-ups and interrupt
// on change. The driver keeps no copy of any register; every call goes to the
// chip.
//
// Single pins are available as views implementing the periph.io gpio
// interfaces: Dev.AsInput returns a gpio.PinIn, Dev.AsOutput a gpio.PinOut
// and Dev.AsInputOutput a gpio.PinIO. Dev.Group returns a gpio.Group, and Dev
// itself is a half duplex conn.Conn on the whole port.
//
// # Address
//
// The I²C address is 0x20 plus the value of the A2..A0 straps. On the wire
// the address byte of a write is 0x40 | (straps << 1), see Dev.WireAddr.
//
// # Interrupts
//
// The INT output has to be connected to a host pin. Enable it with
// Dev.InterruptOnChanges and call Dev.AcknowledgeInterrupt after each falling
// edge, otherwise the chip won't raise another one.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/21919e.pdf
package mcp23008

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package expander is a container for I/O expander drivers built on
// periph.io.
//
// The mcp23008 package drives the Microchip MCP23008 8-bit I²C port
// expander, and cmd/mcp23008 exposes it on the command line.
package expander

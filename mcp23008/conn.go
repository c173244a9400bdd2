// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23008

import (
	"errors"

	"periph.io/x/conn/v3"
)

// Tx implements conn.Conn over the whole port. Each byte of w is written to
// the output latch in turn; each byte of r is filled by a read of the GPIO
// register. Only half duplex is supported, so passing both buffers is an
// error. Directions are not changed.
func (d *Dev) Tx(w, r []byte) error {
	switch {
	case len(w) > 0 && len(r) > 0:
		return errors.New("mcp23008: only conn.Half duplex is supported")
	case len(w) > 0:
		for _, b := range w {
			if err := d.WriteOutputs(b); err != nil {
				return err
			}
		}
	case len(r) > 0:
		for i := range r {
			v, err := d.ReadInputs()
			if err != nil {
				return err
			}
			r[i] = v
		}
	}
	return nil
}

// Duplex returns that this is a half duplex connection.
func (d *Dev) Duplex() conn.Duplex {
	return conn.Half
}

var _ conn.Conn = &Dev{}

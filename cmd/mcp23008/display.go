// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
)

var (
	colorHigh = color.NRGBA{R: 0x20, G: 0xe0, B: 0x20, A: 255}
	colorLow  = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 255}
)

// levelDisplay renders the 8 pin levels on a single console line, GP7 first.
type levelDisplay struct {
	w       io.Writer
	palette ansi256.Palette
	buf     bytes.Buffer
}

func newLevelDisplay(w io.Writer) *levelDisplay {
	return &levelDisplay{w: w, palette: *ansi256.Default}
}

func (l *levelDisplay) show(v uint8) error {
	l.buf.Reset()
	_, _ = l.buf.WriteString("\r\033[0m")
	for i := 7; i >= 0; i-- {
		c := colorLow
		if v&(1<<uint(i)) != 0 {
			c = colorHigh
		}
		_, _ = io.WriteString(&l.buf, l.palette.Block(c))
	}
	_, _ = fmt.Fprintf(&l.buf, "\033[0m 0x%02x ", v)
	_, err := l.buf.WriteTo(l.w)
	return err
}

// Halt resets the console attributes and ends the line.
func (l *levelDisplay) Halt() error {
	_, err := l.w.Write([]byte("\n\033[0m"))
	return err
}

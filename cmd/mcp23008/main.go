// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// mcp23008 drives an MCP23008 I/O expander from the command line.
//
// The chip is reset when the tool starts, so a run is a sequence of commands
// applied in order:
//
//	mcp23008 -a 3 out 0x0f write 0x05 pullup 0xf0 read
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/expander/mcp23008"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: mcp23008 [flags] <command> [<command> ...]

Commands:
  read            print the port, latch, direction, pull-up and polarity registers
  write <value>   write the output latch
  out <mask>      set the pins in mask to output
  in <mask>       set the pins in mask to input
  pullup <value>  set the pull-up register
  polarity <value> set the input polarity register
  watch <count>   print the pin levels count times, every -i

Flags:
`)
	flag.PrintDefaults()
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return uint8(v), nil
}

func printRegisters(w io.Writer, d *mcp23008.Dev) error {
	for _, r := range []struct {
		name string
		f    func() (uint8, error)
	}{
		{"GPIO", d.ReadInputs},
		{"OLAT", d.ReadOutputs},
		{"IODIR", d.Directions},
		{"GPPU", d.Pullups},
		{"IPOL", d.InputPolarity},
	} {
		v, err := r.f()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-6s 0x%02x %08b\n", r.name, v, v); err != nil {
			return err
		}
	}
	return nil
}

// run executes the commands in args in order.
func run(d *mcp23008.Dev, w io.Writer, interval time.Duration, args []string) error {
	for len(args) != 0 {
		cmd := args[0]
		args = args[1:]
		log.Printf("%s: %s %v", d, cmd, args)
		if cmd == "read" {
			if err := printRegisters(w, d); err != nil {
				return err
			}
			continue
		}
		if len(args) == 0 {
			return fmt.Errorf("%s: missing argument", cmd)
		}
		v, err := parseByte(args[0])
		if err != nil {
			return fmt.Errorf("%s: %w", cmd, err)
		}
		args = args[1:]
		switch cmd {
		case "write":
			err = d.WriteOutputs(v)
		case "out":
			err = d.SetOutputPins(mcp23008.Pin(v))
		case "in":
			err = d.SetInputPins(mcp23008.Pin(v))
		case "pullup":
			err = d.SetPullups(v)
		case "polarity":
			err = d.SetInputPolarity(v)
		case "watch":
			err = watch(d, newLevelDisplay(w), int(v), interval)
		default:
			return fmt.Errorf("unknown command %q", cmd)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func watch(d *mcp23008.Dev, disp *levelDisplay, count int, interval time.Duration) error {
	for i := 0; i < count; i++ {
		if i != 0 {
			time.Sleep(interval)
		}
		v, err := d.ReadInputs()
		if err != nil {
			return err
		}
		if err := disp.show(v); err != nil {
			return err
		}
	}
	return disp.Halt()
}

func mainImpl() error {
	busName := flag.String("b", "", "I²C bus to use")
	addr := flag.Uint("a", 0, "A2..A0 address straps, 0 to 7")
	speed := mcp23008.StandardMode
	flag.Var(&speed, "s", "I²C bus speed")
	interval := flag.Duration("i", 200*time.Millisecond, "watch interval")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Usage = usage
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() == 0 {
		return errors.New("specify at least one command")
	}
	if *addr > 7 {
		return mcp23008.ErrAddressRange
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	opts := mcp23008.Opts{Address: uint8(*addr), Speed: speed}
	d, err := mcp23008.New(bus, &opts)
	if err != nil {
		return err
	}
	log.Printf("%s: wire address 0x%02x at %s", d, d.WireAddr(), speed)
	return run(d, colorable.NewColorableStdout(), *interval, flag.Args())
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp23008: %s.\n", err)
		os.Exit(1)
	}
}

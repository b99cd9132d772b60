// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/GermanBionicSystems/tca9539/tca9539"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
)

// sequenceSep separates commands sharing one Dev in a single invocation.
const sequenceSep = ";"

// splitCommands splits args on sequenceSep, dropping empty commands.
func splitCommands(args []string) [][]string {
	var cmds [][]string
	start := 0
	for i := 0; i <= len(args); i++ {
		if i == len(args) || args[i] == sequenceSep {
			if i > start {
				cmds = append(cmds, args[start:i])
			}
			start = i + 1
		}
	}
	return cmds
}

// writesRegisters reports whether one of cmds writes a register.
func writesRegisters(cmds [][]string) bool {
	for _, c := range cmds {
		switch c[0] {
		case "dir", "pol", "set", "write":
			return true
		}
	}
	return false
}

// runAll executes the commands of args in order on an initialized dev, so
// later commands see the register mirrors left by earlier ones.
func runAll(ctx context.Context, dev *tca9539.Dev, w io.Writer, log *zap.Logger, args []string) error {
	cmds := splitCommands(args)
	if len(cmds) == 0 {
		return errors.New("specify a command")
	}
	for _, c := range cmds {
		if err := run(ctx, dev, w, log, c); err != nil {
			return fmt.Errorf("%s: %w", c[0], err)
		}
	}
	return nil
}

// run executes the command in args on an initialized dev.
func run(ctx context.Context, dev *tca9539.Dev, w io.Writer, log *zap.Logger, args []string) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "init":
		return printMirrors(dev, w)
	case "dir":
		pin, v, err := pinArg(log, args, "in", "out")
		if err != nil {
			return err
		}
		dir := tca9539.Output
		if v == "in" {
			dir = tca9539.Input
		}
		return dev.SetDirection(pin, dir)
	case "pol":
		pin, v, err := pinArg(log, args, "on", "off")
		if err != nil {
			return err
		}
		return dev.SetPolarityInversion(pin, v == "on")
	case "set":
		pin, v, err := pinArg(log, args, "1", "0")
		if err != nil {
			return err
		}
		return dev.SetPinValue(pin, gpio.Level(v == "1"))
	case "get":
		pin, _, err := pinArg(log, args)
		if err != nil {
			return err
		}
		l, err := dev.ReadPinValue(pin)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, l)
		return err
	case "read":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		be := fs.Bool("be", false, "port 0 in the high byte")
		if err := fs.Parse(args); err != nil {
			return err
		}
		v, err := readWord(dev, *be)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "0x%04x\n", v)
		return err
	case "write":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		be := fs.Bool("be", false, "port 0 in the high byte")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errors.New("write expects a value")
		}
		v, err := strconv.ParseUint(fs.Arg(0), 0, 16)
		if err != nil {
			return err
		}
		if *be {
			return dev.SetWordBigEndian(uint16(v))
		}
		return dev.SetWord(uint16(v))
	case "watch":
		fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
		be := fs.Bool("be", false, "port 0 in the high byte")
		interval := fs.Duration("interval", 100*time.Millisecond, "time between reads")
		frames := fs.Int("n", 0, "number of reads, 0 until interrupted")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return watch(ctx, dev, newStrip(w), *be, *interval, *frames)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// pinArg parses "<pin> [value]". When values is not empty the value must be
// one of them.
func pinArg(log *zap.Logger, args []string, values ...string) (int, string, error) {
	want := 1
	if len(values) != 0 {
		want = 2
	}
	if len(args) != want {
		return 0, "", fmt.Errorf("expected %d arguments, got %d", want, len(args))
	}
	pin, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, "", err
	}
	if pin < 0 || pin >= tca9539.NumPins {
		log.Warn("pin out of range, the device ignores it", zap.Int("pin", pin))
	}
	if want == 1 {
		return pin, "", nil
	}
	for _, v := range values {
		if args[1] == v {
			return pin, v, nil
		}
	}
	return 0, "", fmt.Errorf("invalid value %q, expected one of %q", args[1], values)
}

func readWord(dev *tca9539.Dev, bigEndian bool) (uint16, error) {
	if bigEndian {
		return dev.ReadWordBigEndian()
	}
	return dev.ReadWord()
}

func printMirrors(dev *tca9539.Dev, w io.Writer) error {
	for _, r := range []tca9539.Register{tca9539.RegInput, tca9539.RegOutput, tca9539.RegPolarityInversion, tca9539.RegConfiguration} {
		if _, err := fmt.Fprintf(w, "%-17s 0x%04x\n", r, dev.Mirror(r)); err != nil {
			return err
		}
	}
	return nil
}

// watch renders the input word every interval until ctx is done or frames
// reads were done.
func watch(ctx context.Context, dev *tca9539.Dev, s *strip, bigEndian bool, interval time.Duration, frames int) (err error) {
	defer func() {
		if err2 := s.halt(); err == nil {
			err = err2
		}
	}()
	t := time.NewTicker(interval)
	defer t.Stop()
	for i := 0; frames <= 0 || i < frames; i++ {
		if i != 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
			}
		}
		v, err := readWord(dev, bigEndian)
		if err != nil {
			return err
		}
		if err = s.render(v); err != nil {
			return err
		}
	}
	return nil
}

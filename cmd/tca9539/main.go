// Copyright 2022 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// tca9539 operates a TCA9539 I²C GPIO expander.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/GermanBionicSystems/tca9539/tca9539"
	"github.com/go-logr/zapr"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: tca9539 [flags] <command> [args]

commands:
  init                        print the register mirrors after reset
  dir   <pin> in|out          set the direction of a pin
  pol   <pin> on|off          set the polarity inversion of a pin
  set   <pin> 0|1             set the output value of a pin
  get   <pin>                 read a pin
  read  [-be]                 read the input word
  write [-be] <value>         write the output word
  watch [-be] [-interval d] [-n frames]
                              show the input word as a LED strip

Commands separated by ";" run in order on the same device. Each invocation
starts from the power-on register values, so without -reset a register
write also rewrites the pins set by earlier invocations. Chain commands
instead: tca9539 dir 3 out ";" dir 4 out

flags:
`)
	flag.PrintDefaults()
}

// newLogger returns a console logger, at debug level when verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	return cfg.Build()
}

// lookupLine returns the GPIO line with the given number, or nil for 0.
func lookupLine(number int) (gpio.PinIO, error) {
	if number == 0 {
		return nil, nil
	}
	p := gpioreg.ByName(strconv.Itoa(number))
	if p == nil {
		return nil, fmt.Errorf("no GPIO %d", number)
	}
	return p, nil
}

// warnUnwiredReset warns when args write registers while the mirrors cannot
// be known to match the device.
func warnUnwiredReset(log *zap.Logger, reset int, args []string) {
	if reset == 0 && writesRegisters(splitCommands(args)) {
		log.Warn("RESET not wired, registers are written from power-on values and may undo earlier invocations; chain commands with \";\"")
	}
}

func mainImpl() error {
	busName := flag.String("bus", "", "I²C bus to use")
	addr := flag.Uint("addr", uint(tca9539.DefaultAddress), "I²C address of the device, 0x74 to 0x77")
	reset := flag.Int("reset", 0, "GPIO wired to RESET, 0 if not wired")
	intr := flag.Int("int", 0, "GPIO wired to INT, 0 if not wired")
	verbose := flag.Bool("v", false, "log register transactions")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("specify a command")
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if _, err = host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	opts := tca9539.Opts{Addr: uint16(*addr), Logger: zapr.NewLogger(logger)}
	resetLine, err := lookupLine(*reset)
	if err != nil {
		return err
	}
	if resetLine != nil {
		opts.Reset = resetLine
	}
	intrLine, err := lookupLine(*intr)
	if err != nil {
		return err
	}
	if intrLine != nil {
		opts.Interrupt = intrLine
	}

	dev, err := tca9539.New(bus, &opts)
	if err != nil {
		return err
	}
	defer dev.Close()
	if err = dev.Init(); err != nil {
		return err
	}
	logger.Debug("initialized", zap.Stringer("dev", dev), zap.String("bus", bus.String()))
	warnUnwiredReset(logger, *reset, flag.Args())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runAll(ctx, dev, colorable.NewColorableStdout(), logger, flag.Args())
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "tca9539: %s.\n", err)
		os.Exit(1)
	}
}

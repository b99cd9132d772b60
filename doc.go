// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package devices is a container for the TCA9539 I²C GPIO expander driver.
//
// The driver lives in package tca9539 and cmd/tca9539 is a command line tool
// to operate a chip from a host supported by periph.io/x/host.
package devices

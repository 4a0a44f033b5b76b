// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package emulator

import (
	"errors"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// ErrNotImplemented is returned by PWM.
var ErrNotImplemented = errors.New("emulator: not implemented")

// Pin is one of the control lines of the emulated controller.
type Pin struct {
	dev    *Dev
	name   string
	number int
	l      gpio.Level
	err    error
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name returns the name of the GPIO pin.
func (p *Pin) Name() string {
	return p.name
}

// Number returns the number of the GPIO pin.
func (p *Pin) Number() int {
	return p.number
}

// Deprecated: returns "Out"
func (p *Pin) Function() string {
	return "Out"
}

// Out drives the line. Pulling RST low resets the controller.
func (p *Pin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	p.l = l
	if p == p.dev.RST && l == gpio.Low {
		p.dev.reset()
	}
	return nil
}

// Read returns the level last driven.
func (p *Pin) Read() gpio.Level {
	return p.l
}

// Fail makes every following Out call return err. Use nil to recover.
func (p *Pin) Fail(err error) {
	p.err = err
}

// Not implemented.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (p *Pin) String() string {
	return p.name
}

var _ gpio.PinOut = &Pin{}

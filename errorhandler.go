// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import (
	"periph.io/x/conn/v3/gpio"
)

// errorHandler keeps the first error encountered. Once an error is recorded
// every following step is skipped.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) out(r Resource, p gpio.PinOut, l gpio.Level) {
	if eh.err != nil {
		return
	}
	if err := p.Out(l); err != nil {
		eh.err = &Error{Resource: r, Err: err}
	}
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	eh.out(DC, eh.d.dc, l)
}

func (eh *errorHandler) ceOut(l gpio.Level) {
	eh.out(CE, eh.d.ce, l)
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	eh.out(RST, eh.d.rst, l)
}

func (eh *errorHandler) cTx(w []byte) {
	if eh.err != nil {
		return
	}
	if err := eh.d.c.Tx(w, nil); err != nil {
		eh.err = &Error{Resource: SPI, Err: err}
	}
}

// run runs f unless a previous step failed.
func (eh *errorHandler) run(f func() error) {
	if eh.err != nil {
		return
	}
	eh.err = f()
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"testing"

	"github.com/GermanBionicSystems/pcd8544"
	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

type fakeDevice struct {
	w      [][]byte
	err    error
	closed bool
}

func (f *fakeDevice) Tx(w, r []byte) error {
	f.w = append(f.w, append([]byte(nil), w...))
	return f.err
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}

func TestSpidevConn(t *testing.T) {
	f := &fakeDevice{}
	c := &spidevConn{path: "/dev/spidev0.1", d: f}
	if s := c.String(); s != "spidev(/dev/spidev0.1)" {
		t.Errorf("String() = %q", s)
	}
	if c.Duplex() != conn.Full {
		t.Error("spidev is full duplex")
	}
	pin := func(n string) *gpiotest.Pin { return &gpiotest.Pin{N: n} }
	dev, err := pcd8544.New(c, pin("DC"), pin("CE"), pin("RST"), pin("LIGHT"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.Init(); err != nil {
		t.Fatal(err)
	}
	want := [][]byte{{0x21}, {0xB8}, {0x07}, {0x14}, {0x20}, {0x0C}}
	if diff := cmp.Diff(f.w, want); diff != "" {
		t.Errorf("Tx difference (-got +want):\n%s", diff)
	}
	f.err = errors.New("EIO")
	if err := dev.WriteCommand(0x0D); !errors.Is(err, f.err) {
		t.Errorf("WriteCommand() = %v", err)
	}
	if err := c.Close(); err != nil || !f.closed {
		t.Error("Close() must close the device")
	}
}

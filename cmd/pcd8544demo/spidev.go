// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"

	expspi "golang.org/x/exp/io/spi"
)

// txCloser is the part of *expspi.Device used here.
type txCloser interface {
	Tx(w, r []byte) error
	Close() error
}

// spidevConn is a conn.Conn over a Linux spidev node opened without the
// periph host drivers.
type spidevConn struct {
	path string
	d    txCloser
}

func openSpidev(path string, f physic.Frequency) (*spidevConn, error) {
	d, err := expspi.Open(&expspi.Devfs{
		Dev:      path,
		Mode:     expspi.Mode0,
		MaxSpeed: int64(f / physic.Hertz),
	})
	if err != nil {
		return nil, err
	}
	if err := d.SetBitsPerWord(8); err != nil {
		_ = d.Close()
		return nil, err
	}
	return &spidevConn{path: path, d: d}, nil
}

func (s *spidevConn) String() string {
	return fmt.Sprintf("spidev(%s)", s.path)
}

// Tx implements conn.Conn.
func (s *spidevConn) Tx(w, r []byte) error {
	return s.d.Tx(w, r)
}

// Duplex implements conn.Conn.
func (s *spidevConn) Duplex() conn.Duplex {
	return conn.Full
}

func (s *spidevConn) Close() error {
	return s.d.Close()
}

var _ conn.Conn = &spidevConn{}

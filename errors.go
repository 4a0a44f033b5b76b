// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import "strconv"

// Resource identifies which of the resources owned by Dev failed.
type Resource int

// Resources owned by Dev.
const (
	SPI Resource = iota
	DC
	CE
	RST
	Light
)

func (r Resource) String() string {
	switch r {
	case SPI:
		return "spi"
	case DC:
		return "dc"
	case CE:
		return "ce"
	case RST:
		return "rst"
	case Light:
		return "light"
	default:
		return "Resource(" + strconv.Itoa(int(r)) + ")"
	}
}

// Error is returned when the SPI connection or one of the GPIO lines fails.
//
// Use errors.As to find out which resource failed. The underlying error is
// available through errors.Unwrap.
type Error struct {
	Resource Resource
	Err      error
}

func (e *Error) Error() string {
	return "pcd8544: " + e.Resource.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinydisplay exposes a PCD8544 as a TinyGo drivers.Displayer so
// tinyfont and tinydraw can render on it.
//
// TinyGo monochrome drivers treat any color with a non zero red, green or
// blue component as a lit pixel. On the PCD8544 a set bit is a dark pixel,
// so such a color sets the bit.
package tinydisplay

import (
	"image/color"

	"github.com/GermanBionicSystems/pcd8544"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
)

// Target is what Displayer draws on. *pcd8544.Dev implements it.
type Target interface {
	pcd8544.Surface
	Flush() error
}

// Displayer adapts a Target to drivers.Displayer.
type Displayer struct {
	t Target
}

// New returns a Displayer drawing on t.
func New(t Target) *Displayer {
	return &Displayer{t: t}
}

// Size implements drivers.Displayer.
func (d *Displayer) Size() (x, y int16) {
	w, h := d.t.Size()
	return int16(w), int16(h)
}

// SetPixel implements drivers.Displayer.
//
// Out of bounds coordinates are ignored.
func (d *Displayer) SetPixel(x, y int16, c color.RGBA) {
	d.t.SetPixel(int(x), int(y), Bit(c))
}

// Display implements drivers.Displayer by flushing the framebuffer.
func (d *Displayer) Display() error {
	return d.t.Flush()
}

// FillScreen sets every pixel to c. The screen is not flushed.
func (d *Displayer) FillScreen(c color.RGBA) {
	d.t.Clear(Bit(c))
}

// FillRectangle sets the pixels of the rectangle to c. The screen is not
// flushed.
func (d *Displayer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	b := Bit(c)
	for j := y; j < y+height; j++ {
		for i := x; i < x+width; i++ {
			d.t.SetPixel(int(i), int(j), b)
		}
	}
	return nil
}

// Bit converts a TinyGo color to a pixel. Alpha is ignored.
func Bit(c color.RGBA) image1bit.Bit {
	return image1bit.Bit(c.R != 0 || c.G != 0 || c.B != 0)
}

var _ drivers.Displayer = &Displayer{}

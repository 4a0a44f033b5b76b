// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Framebuffer is the in-memory copy of the display RAM.
//
// Bit b of Framebuffer[bank][x] is the pixel at (x, bank*8+b). It implements
// draw.Image so it can be used as the destination of image/draw operations.
type Framebuffer [Banks][Width]byte

// SetBit sets the pixel at (x, y). Coordinates outside of the display are
// ignored.
func (f *Framebuffer) SetBit(x, y int, c image1bit.Bit) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	mask := byte(1) << uint(y&7)
	if c {
		f[y>>3][x] |= mask
	} else {
		f[y>>3][x] &^= mask
	}
}

// BitAt returns the pixel at (x, y). Coordinates outside of the display read
// as Off.
func (f *Framebuffer) BitAt(x, y int) image1bit.Bit {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return image1bit.Off
	}
	return f[y>>3][x]&(1<<uint(y&7)) != 0
}

// Fill sets every pixel to c.
func (f *Framebuffer) Fill(c image1bit.Bit) {
	var v byte
	if c {
		v = 0xFF
	}
	for bank := range f {
		for x := range f[bank] {
			f[bank][x] = v
		}
	}
}

// Bytes returns a copy of the framebuffer in transmission order: bank 0
// columns 0 to 83, then bank 1 and so on.
func (f *Framebuffer) Bytes() []byte {
	b := make([]byte, 0, Banks*Width)
	for bank := range f {
		b = append(b, f[bank][:]...)
	}
	return b
}

// ColorModel implements image.Image.
func (f *Framebuffer) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements image.Image. Min is always {0, 0}.
func (f *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image.
func (f *Framebuffer) At(x, y int) color.Color {
	return f.BitAt(x, y)
}

// Set implements draw.Image.
func (f *Framebuffer) Set(x, y int, c color.Color) {
	f.SetBit(x, y, image1bit.BitModel.Convert(c).(image1bit.Bit))
}

var _ draw.Image = &Framebuffer{}

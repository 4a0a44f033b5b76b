// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/GermanBionicSystems/pcd8544"
	"github.com/MaxHalford/halfgone"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

// A set bit is a dark pixel on the panel, so everything here draws white
// ink on black.

// fontFace returns the face named by the -font flag.
func fontFace(name string, size float64) (font.Face, error) {
	switch name {
	case "basic":
		return basicfont.Face7x13, nil
	case "goregular":
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}
		return truetype.NewFace(f, &truetype.Options{Size: size}), nil
	default:
		return nil, fmt.Errorf("unknown font %q", name)
	}
}

// scene draws a frame, a row of dots and text centered in the upper half.
func scene(face font.Face, text string) image.Image {
	dc := gg.NewContext(pcd8544.Width, pcd8544.Height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(0.5, 0.5, pcd8544.Width-1, pcd8544.Height-1, 4)
	dc.Stroke()
	for i := 0; i < 5; i++ {
		dc.DrawCircle(float64(10+16*i), 30, 3)
	}
	dc.Fill()
	dc.SetFontFace(face)
	dc.DrawStringAnchored(text, pcd8544.Width/2, 13, 0.5, 0.5)
	return dc.Image()
}

// dither scales img to fit the panel and reduces it to two levels. The
// result is inverted so dark areas of img become set bits.
func dither(img image.Image) *image.Gray {
	bounds := image.Rect(0, 0, pcd8544.Width, pcd8544.Height)
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	if img.Bounds().Size() != bounds.Size() {
		img = imaging.Fit(img, pcd8544.Width, pcd8544.Height, imaging.Lanczos)
	}
	// Center the picture, the margins stay white.
	size := img.Bounds().Size()
	at := image.Pt((pcd8544.Width-size.X)/2, (pcd8544.Height-size.Y)/2)
	draw.Draw(gray, image.Rectangle{Min: at, Max: at.Add(size)}, img, img.Bounds().Min, draw.Src)
	for i := range gray.Pix {
		gray.Pix[i] = 0xFF - gray.Pix[i]
	}
	return halfgone.FloydSteinbergDitherer{}.Apply(gray)
}

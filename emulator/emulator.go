// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package emulator implements a software PCD8544 controller that renders to
// the terminal (stdout) using ANSI color codes.
//
// Dev is both the SPI port and the four GPIO lines of the controller, so it
// can be handed to pcd8544.NewSPI in place of real hardware. The byte stream
// is decoded like the controller does it: bytes are only accepted while SCE
// is low and RST is high, D/C selects between instructions and display data,
// and instructions are interpreted according to the selected instruction
// set.
//
// Useful while you are waiting for your Nokia 5110 breakout to come by mail.
package emulator

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/pcd8544"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Colors of the rendered panel.
var (
	// Pixel is the color of a dark pixel.
	Pixel = color.NRGBA{0x1E, 0x23, 0x1A, 0xFF}
	// Lit is the background with the backlight on.
	Lit = color.NRGBA{0x9B, 0xBC, 0x0F, 0xFF}
	// Unlit is the background with the backlight off.
	Unlit = color.NRGBA{0x8B, 0x95, 0x6D, 0xFF}
)

// Opts represents the options available for the emulator.
type Opts struct {
	// Palette used to render; defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Out receives the rendered frames; defaults to stdout.
	Out io.Writer
	// AutoRefresh renders a frame every time the RAM address pointer wraps
	// back to the origin, which happens after each full flush.
	AutoRefresh bool

	_ struct{}
}

// State is the controller configuration as decoded from the instruction
// stream.
type State struct {
	PowerDown   bool
	Vertical    bool
	Extended    bool
	Mode        pcd8544.DisplayMode
	Vop         byte
	Temperature pcd8544.TemperatureCoefficient
	Bias        pcd8544.BiasMode
	// X and Y are the RAM address pointer, in columns and banks.
	X, Y int
}

// Dev is a PCD8544 emulator.
//
// It implements spi.Port and spi.Conn. The control lines are exposed as
// fields.
type Dev struct {
	DC    *Pin
	CE    *Pin
	RST   *Pin
	Light *Pin

	w           io.Writer
	palette     ansi256.Palette
	autoRefresh bool

	freq  physic.Frequency
	state State
	ram   pcd8544.Framebuffer

	transactions int
	commands     []byte
	frames       int

	txLeft int
	txErr  error

	buf bytes.Buffer
}

// New returns an emulated controller, held in reset like a freshly powered
// one.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Out
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:           w,
		palette:     *p,
		autoRefresh: opts.AutoRefresh,
	}
	d.DC = &Pin{dev: d, name: "PCD8544.DC", number: 0}
	d.CE = &Pin{dev: d, name: "PCD8544.SCE", number: 1, l: gpio.High}
	d.RST = &Pin{dev: d, name: "PCD8544.RST", number: 2}
	d.Light = &Pin{dev: d, name: "PCD8544.LIGHT", number: 3, l: gpio.High}
	d.reset()
	return d
}

func (d *Dev) String() string {
	return "PCD8544Emulator"
}

// Connect implements spi.Port.
func (d *Dev) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, fmt.Errorf("emulator: invalid bits %d; the controller uses 8 bits words", bits)
	}
	if mode&^spi.NoCS != spi.Mode0 {
		return nil, fmt.Errorf("emulator: invalid mode %s; the controller uses mode 0", mode)
	}
	if f > 4*physic.MegaHertz {
		return nil, fmt.Errorf("emulator: %s is above the maximum clock of 4MHz", f)
	}
	d.freq = f
	return d, nil
}

// LimitSpeed implements spi.Port.
func (d *Dev) LimitSpeed(f physic.Frequency) error {
	return nil
}

// Duplex implements conn.Conn.
func (d *Dev) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn. The controller can't be read from.
func (d *Dev) Tx(w, r []byte) error {
	if len(r) != 0 {
		return errors.New("emulator: the controller is write only")
	}
	if d.txErr != nil {
		if d.txLeft == 0 {
			return d.txErr
		}
		d.txLeft--
	}
	// Deselected or held in reset, the serial interface ignores the clock.
	if d.CE.l == gpio.High || d.RST.l == gpio.Low {
		return nil
	}
	d.transactions++
	for _, b := range w {
		if d.DC.l == gpio.High {
			d.data(b)
		} else {
			d.command(b)
		}
	}
	return nil
}

// TxPackets implements spi.Conn.
func (d *Dev) TxPackets(p []spi.Packet) error {
	for i := range p {
		if err := d.Tx(p[i].W, p[i].R); err != nil {
			return err
		}
	}
	return nil
}

// Freq returns the clock requested by the last Connect call.
func (d *Dev) Freq() physic.Frequency {
	return d.freq
}

// FailTx makes Tx return err once n more transactions succeeded. Use a nil
// err to stop failing.
func (d *Dev) FailTx(n int, err error) {
	d.txLeft = n
	d.txErr = err
}

// State returns the configuration decoded so far.
func (d *Dev) State() State {
	return d.state
}

// RAM returns a copy of the display RAM.
func (d *Dev) RAM() pcd8544.Framebuffer {
	return d.ram
}

// Commands returns every instruction byte accepted since the last reset.
func (d *Dev) Commands() []byte {
	return append([]byte(nil), d.commands...)
}

// Transactions returns the number of SPI transactions accepted while the
// controller was selected.
func (d *Dev) Transactions() int {
	return d.transactions
}

// Frames returns the number of frames rendered.
func (d *Dev) Frames() int {
	return d.frames
}

// Backlight reports whether the backlight is on. The line is active low.
func (d *Dev) Backlight() bool {
	return d.Light.l == gpio.Low
}

// Image returns what the panel currently shows, taking the display mode and
// power down into account. On is a dark pixel.
func (d *Dev) Image() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, pcd8544.Width, pcd8544.Height))
	for y := 0; y < pcd8544.Height; y++ {
		for x := 0; x < pcd8544.Width; x++ {
			img.SetBit(x, y, d.visible(x, y))
		}
	}
	return img
}

func (d *Dev) visible(x, y int) image1bit.Bit {
	if d.state.PowerDown {
		return image1bit.Off
	}
	switch d.state.Mode {
	case pcd8544.DisplayNormal:
		return d.ram.BitAt(x, y)
	case pcd8544.DisplayInverse:
		return !d.ram.BitAt(x, y)
	case pcd8544.DisplayAllOn:
		return image1bit.On
	default:
		return image1bit.Off
	}
}

// Refresh renders the panel to the output.
func (d *Dev) Refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.frames != 0 {
		// Draw over the previous frame.
		fmt.Fprintf(&d.buf, "\033[%dA", pcd8544.Height)
	}
	bg := Unlit
	if d.Backlight() {
		bg = Lit
	}
	on := d.palette.Block(Pixel)
	off := d.palette.Block(bg)
	for y := 0; y < pcd8544.Height; y++ {
		_, _ = d.buf.WriteString("\r\033[0m")
		for x := 0; x < pcd8544.Width; x++ {
			if d.visible(x, y) {
				_, _ = d.buf.WriteString(on)
			} else {
				_, _ = d.buf.WriteString(off)
			}
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.frames++
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Halt implements conn.Resource.
//
// It restores the terminal colors.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// reset puts the controller in its power on state. The display RAM is not
// cleared.
func (d *Dev) reset() {
	d.state = State{PowerDown: true, Mode: pcd8544.DisplayBlank}
	d.commands = nil
}

func (d *Dev) command(b byte) {
	d.commands = append(d.commands, b)
	s := &d.state
	switch {
	case b&0xF8 == 0x20:
		s.PowerDown = b&0x04 != 0
		s.Vertical = b&0x02 != 0
		s.Extended = b&0x01 != 0
	case !s.Extended:
		switch {
		case b&0x80 != 0:
			if x := int(b & 0x7F); x < pcd8544.Width {
				s.X = x
			}
		case b&0xF8 == 0x40:
			if y := int(b & 0x07); y < pcd8544.Banks {
				s.Y = y
			}
		case b&0xFA == 0x08:
			s.Mode = pcd8544.DisplayMode(b & 0x05)
		}
	default:
		switch {
		case b&0x80 != 0:
			s.Vop = b & 0x7F
		case b&0xF8 == 0x10:
			s.Bias = pcd8544.BiasMode(b & 0x07)
		case b&0xFC == 0x04:
			s.Temperature = pcd8544.TemperatureCoefficient(b & 0x03)
		}
	}
}

func (d *Dev) data(b byte) {
	s := &d.state
	d.ram[s.Y][s.X] = b
	wrapped := false
	if s.Vertical {
		if s.Y++; s.Y == pcd8544.Banks {
			s.Y = 0
			if s.X++; s.X == pcd8544.Width {
				s.X = 0
				wrapped = true
			}
		}
	} else {
		if s.X++; s.X == pcd8544.Width {
			s.X = 0
			if s.Y++; s.Y == pcd8544.Banks {
				s.Y = 0
				wrapped = true
			}
		}
	}
	if wrapped && d.autoRefresh {
		// Rendering errors are not the controller's concern.
		_ = d.Refresh()
	}
}

var _ spi.Port = &Dev{}
var _ spi.Conn = &Dev{}
var _ fmt.Stringer = &Dev{}

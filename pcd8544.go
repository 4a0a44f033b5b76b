// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pcd8544

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Display geometry.
const (
	Width  = 84
	Height = 48
	// Banks is the number of 8 pixels high horizontal bands.
	Banks = Height / 8
)

// Instructions. See page 14 of the datasheet.
const (
	functionSet      byte = 0x20
	fsPowerDown      byte = 0x04
	fsVertical       byte = 0x02
	fsExtended       byte = 0x01
	displayControl   byte = 0x08
	setBias          byte = 0x10
	setTemperature   byte = 0x04
	setVop           byte = 0x80
	vopMask          byte = 0x7F
	displayModeMask  byte = 0x05
	biasMask         byte = 0x07
	temperatureMask  byte = 0x03
	defaultContrast  byte = 56
	pixelStreamBytes      = Banks * Width
)

// DisplayMode is the display configuration set with display control.
type DisplayMode byte

// Display modes.
const (
	DisplayBlank   DisplayMode = 0x0
	DisplayNormal  DisplayMode = 0x4
	DisplayAllOn   DisplayMode = 0x1
	DisplayInverse DisplayMode = 0x5
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayBlank:
		return "Blank"
	case DisplayNormal:
		return "Normal"
	case DisplayAllOn:
		return "AllOn"
	case DisplayInverse:
		return "Inverse"
	default:
		return fmt.Sprintf("DisplayMode(%d)", byte(m))
	}
}

// BiasMode is the LCD bias voltage ratio. It should match the multiplex rate
// of the panel, 1:48 for the usual 84x48 glass which is served by Bias1To40.
type BiasMode byte

// Bias ratios, from the highest to the lowest.
const (
	Bias1To100 BiasMode = iota
	Bias1To80
	Bias1To65
	Bias1To48
	Bias1To40
	Bias1To24
	Bias1To18
	Bias1To10
)

// TemperatureCoefficient compensates the LCD voltage for temperature.
// TC0 is the flattest curve and TC3 the steepest.
type TemperatureCoefficient byte

// Temperature coefficients.
const (
	TC0 TemperatureCoefficient = iota
	TC1
	TC2
	TC3
)

// Opts defines the options for the device.
type Opts struct {
	// Freq is the SPI clock used by NewSPI. The controller is rated for 4MHz.
	Freq physic.Frequency
	// Mode is the SPI mode used by NewSPI.
	Mode spi.Mode
	// Contrast is the operating voltage (Vop) programmed by Init, 0 to 127.
	Contrast byte
	// Temperature is the temperature coefficient programmed by Init.
	Temperature TemperatureCoefficient
	// Bias is the bias system programmed by Init.
	Bias BiasMode
}

// DefaultOpts is the recommended default options. They suit the common
// Nokia 5110 breakout boards.
var DefaultOpts = Opts{
	Freq:        4 * physic.MegaHertz,
	Mode:        spi.Mode0,
	Contrast:    defaultContrast,
	Temperature: TC3,
	Bias:        Bias1To40,
}

// Surface is a pixel addressable monochrome drawing target.
//
// None of the methods communicate with the device, so they can't fail.
type Surface interface {
	// Size returns the dimensions of the surface in pixels.
	Size() (width, height int)
	// SetPixel sets the pixel at (x, y). Pixels outside of the surface are
	// silently dropped.
	SetPixel(x, y int, c image1bit.Bit)
	// Clear sets every pixel to c.
	Clear(c image1bit.Bit)
}

// Dev is an open handle to the display controller.
//
// Dev is not safe for concurrent use.
type Dev struct {
	// Communication
	c     conn.Conn
	dc    gpio.PinOut
	ce    gpio.PinOut
	rst   gpio.PinOut
	light gpio.PinOut

	opts Opts

	// Function set flags, as last written to the controller.
	powerDown bool
	entryMode bool
	extended  bool

	fb Framebuffer
}

// NewSPI returns a Dev object that communicates over SPI to a PCD8544
// display controller.
//
// # Wiring
//
// Connect DIN to SPI_MOSI and CLK to SPI_CLK. SCE is driven by the driver
// through ce, not by the SPI controller's chip select, since the controller
// expects one enable pulse per byte.
//
// Use nil for opts to use DefaultOpts.
func NewSPI(p spi.Port, dc, ce, rst, light gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	c, err := p.Connect(opts.Freq, opts.Mode, 8)
	if err != nil {
		return nil, &Error{Resource: SPI, Err: err}
	}
	return New(c, dc, ce, rst, light, opts)
}

// New returns a Dev that writes to c, which must already be configured.
//
// The controller is held in reset and deselected; call Init before using
// it. Use nil for opts to use DefaultOpts.
func New(c conn.Conn, dc, ce, rst, light gpio.PinOut, opts *Opts) (*Dev, error) {
	for _, p := range []gpio.PinOut{dc, ce, rst, light} {
		if p == nil || p == gpio.INVALID {
			return nil, errors.New("pcd8544: all of dc, ce, rst and light are required")
		}
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		c:     c,
		dc:    dc,
		ce:    ce,
		rst:   rst,
		light: light,
		opts:  *opts,
	}
	eh := errorHandler{d: d}
	eh.rstOut(gpio.Low)
	eh.ceOut(gpio.High)
	if eh.err != nil {
		return nil, eh.err
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("pcd8544.Dev{%s, %s, %s, %s, %s}", d.c, d.dc, d.ce, d.rst, d.light)
}

// Reset pulls the reset line low and runs Init.
func (d *Dev) Reset() error {
	if err := d.rst.Out(gpio.Low); err != nil {
		return &Error{Resource: RST, Err: err}
	}
	return d.Init()
}

// Init resets the controller with a pulse on the reset line, programs the
// voltage settings from Opts, selects the normal display mode and clears the
// framebuffer.
//
// The framebuffer is not flushed. If any step fails the remaining steps are
// skipped; settings already sent stay in effect.
func (d *Dev) Init() error {
	eh := errorHandler{d: d}
	eh.rstOut(gpio.Low)
	eh.rstOut(gpio.High)
	if eh.err != nil {
		return eh.err
	}
	d.powerDown = false
	d.entryMode = false
	d.extended = false

	// Contrast, temperature and bias are only accepted in the extended
	// instruction set, display control only in the basic one.
	eh.run(func() error { return d.EnableExtendedCommands(true) })
	eh.run(func() error { return d.SetContrast(d.opts.Contrast) })
	eh.run(func() error { return d.SetTemperatureCoefficient(d.opts.Temperature) })
	eh.run(func() error { return d.SetBiasMode(d.opts.Bias) })
	eh.run(func() error { return d.EnableExtendedCommands(false) })
	eh.run(func() error { return d.SetDisplayMode(DisplayNormal) })
	if eh.err != nil {
		return eh.err
	}
	d.Clear(image1bit.Off)
	return nil
}

// SetPowerDown puts the controller in power down mode, or wakes it up.
//
// The display RAM content is retained while powered down.
func (d *Dev) SetPowerDown(powerDown bool) error {
	d.powerDown = powerDown
	return d.writeFunctionSet()
}

// SetEntryMode selects vertical addressing when true: the RAM address
// pointer moves down the banks before moving to the next column.
//
// Flush assumes horizontal addressing, the default.
func (d *Dev) SetEntryMode(vertical bool) error {
	d.entryMode = vertical
	return d.writeFunctionSet()
}

// EnableExtendedCommands switches between the basic and the extended
// instruction set.
func (d *Dev) EnableExtendedCommands(enable bool) error {
	d.extended = enable
	return d.writeFunctionSet()
}

// writeFunctionSet writes the function set instruction built from all three
// flags.
func (d *Dev) writeFunctionSet() error {
	cmd := functionSet
	if d.powerDown {
		cmd |= fsPowerDown
	}
	if d.entryMode {
		cmd |= fsVertical
	}
	if d.extended {
		cmd |= fsExtended
	}
	return d.WriteCommand(cmd)
}

// SetDisplayMode selects how the display RAM is shown.
//
// Requires the basic instruction set.
func (d *Dev) SetDisplayMode(mode DisplayMode) error {
	return d.WriteCommand(displayControl | byte(mode)&displayModeMask)
}

// Invert selects between normal and inverse video.
//
// Requires the basic instruction set.
func (d *Dev) Invert(inverse bool) error {
	if inverse {
		return d.SetDisplayMode(DisplayInverse)
	}
	return d.SetDisplayMode(DisplayNormal)
}

// SetBiasMode sets the bias system.
//
// Requires the extended instruction set.
func (d *Dev) SetBiasMode(bias BiasMode) error {
	return d.WriteCommand(setBias | byte(bias)&biasMask)
}

// SetTemperatureCoefficient sets the temperature coefficient.
//
// Requires the extended instruction set.
func (d *Dev) SetTemperatureCoefficient(tc TemperatureCoefficient) error {
	return d.WriteCommand(setTemperature | byte(tc)&temperatureMask)
}

// SetContrast sets the operating voltage, which controls the contrast.
//
// Only the 7 lower bits are used, the valid range is 0 to 127. Requires the
// extended instruction set.
func (d *Dev) SetContrast(contrast byte) error {
	return d.WriteCommand(setVop | contrast&vopMask)
}

// SetBacklight turns the backlight on or off. The line is active low.
func (d *Dev) SetBacklight(on bool) error {
	l := gpio.High
	if on {
		l = gpio.Low
	}
	if err := d.light.Out(l); err != nil {
		return &Error{Resource: Light, Err: err}
	}
	return nil
}

// Backlight implements display.DisplayBacklight. Any non zero intensity
// turns the backlight on.
func (d *Dev) Backlight(intensity display.Intensity) error {
	return d.SetBacklight(intensity != 0)
}

// Halt implements conn.Resource.
//
// It puts the controller in power down mode. SetPowerDown(false) or Init
// wakes it up.
func (d *Dev) Halt() error {
	return d.SetPowerDown(true)
}

// WriteCommand sends a single instruction byte.
func (d *Dev) WriteCommand(cmd byte) error {
	return d.writeByte(gpio.Low, cmd)
}

// WriteData sends a single byte to the display RAM at the current address.
func (d *Dev) WriteData(data byte) error {
	return d.writeByte(gpio.High, data)
}

// writeByte sends b framed by its own chip enable pulse.
func (d *Dev) writeByte(mode gpio.Level, b byte) error {
	eh := errorHandler{d: d}
	eh.dcOut(mode)
	eh.ceOut(gpio.Low)
	eh.cTx([]byte{b})
	eh.ceOut(gpio.High)
	return eh.err
}

// Flush sends the whole framebuffer to the display RAM, bank after bank.
//
// Every byte is a separate transaction. On error the bytes already sent
// remain on the display.
func (d *Dev) Flush() error {
	for bank := range d.fb {
		for x := range d.fb[bank] {
			if err := d.WriteData(d.fb[bank][x]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Size implements Surface.
func (d *Dev) Size() (width, height int) {
	return Width, Height
}

// SetPixel implements Surface.
func (d *Dev) SetPixel(x, y int, c image1bit.Bit) {
	d.fb.SetBit(x, y, c)
}

// Pixel returns the pixel at (x, y) in the framebuffer.
func (d *Dev) Pixel(x, y int) image1bit.Bit {
	return d.fb.BitAt(x, y)
}

// Clear implements Surface.
func (d *Dev) Clear(c image1bit.Bit) {
	d.fb.Fill(c)
}

// Framebuffer returns the framebuffer. Changes made to it are sent on the
// next Flush.
func (d *Dev) Framebuffer() *Framebuffer {
	return &d.fb
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.fb.Bounds()
}

// Draw implements display.Drawer.
//
// src is converted to the framebuffer and the whole framebuffer is flushed.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Src.Draw(&d.fb, r, src, sp)
	return d.Flush()
}

// Write replaces the framebuffer with pixels and flushes it.
//
// The format is the one of Framebuffer.Bytes: 504 bytes, bank after bank,
// each byte representing 8 vertical pixels.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels) != pixelStreamBytes {
		return 0, fmt.Errorf("pcd8544: invalid pixel stream length; expected %d bytes, got %d bytes", pixelStreamBytes, len(pixels))
	}
	for bank := range d.fb {
		copy(d.fb[bank][:], pixels[bank*Width:])
	}
	if err := d.Flush(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

var _ display.Drawer = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ Surface = &Dev{}

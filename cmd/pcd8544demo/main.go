// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// pcd8544demo draws a demo screen on a PCD8544 (Nokia 5110) display.
//
// The display can be reached through the host SPI drivers, an FT232H USB
// bridge, a raw Linux spidev node, or emulated in the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"github.com/GermanBionicSystems/pcd8544"
	"github.com/GermanBionicSystems/pcd8544/emulator"
	"github.com/GermanBionicSystems/pcd8544/tinydisplay"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"periph.io/x/host/v3/ftdi"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

type pins struct {
	dc, ce, rst, light string
}

// display is an opened device and what must be released with it.
type display struct {
	dev   *pcd8544.Dev
	close func() error
	// refresh is set when the panel must be redrawn explicitly.
	refresh func() error
}

func openHost(bus string, p pins, opts *pcd8544.Opts) (*display, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	port, err := spireg.Open(bus)
	if err != nil {
		return nil, err
	}
	dc, ce, rst, light, err := hostPins(p)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	dev, err := pcd8544.NewSPI(port, dc, ce, rst, light, opts)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return &display{dev: dev, close: port.Close}, nil
}

func openSpidevDisplay(path string, p pins, opts *pcd8544.Opts) (*display, error) {
	// The lines are still driven by the host drivers.
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	c, err := openSpidev(path, opts.Freq)
	if err != nil {
		return nil, err
	}
	dc, ce, rst, light, err := hostPins(p)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	dev, err := pcd8544.New(c, dc, ce, rst, light, opts)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return &display{dev: dev, close: c.Close}, nil
}

func hostPins(p pins) (dc, ce, rst, light gpio.PinOut, err error) {
	var out [4]gpio.PinOut
	for i, name := range []string{p.dc, p.ce, p.rst, p.light} {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, nil, nil, nil, fmt.Errorf("no such gpio %q", name)
		}
		out[i] = pin
	}
	return out[0], out[1], out[2], out[3], nil
}

func openFTDI(opts *pcd8544.Opts) (*display, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	all := ftdi.All()
	if len(all) == 0 {
		return nil, errors.New("found no FTDI device on the USB bus")
	}
	ft, ok := all[0].(*ftdi.FT232H)
	if !ok {
		return nil, fmt.Errorf("%s is not a FT232H", all[0])
	}
	port, err := ft.SPI()
	if err != nil {
		return nil, err
	}
	var lines [4]gpio.PinOut
	for i, name := range []string{"FT232H.C0", "FT232H.C1", "FT232H.C2", "FT232H.C3"} {
		for _, h := range ft.Header() {
			if h.Name() == name {
				lines[i] = h
			}
		}
		if lines[i] == nil {
			_ = port.Close()
			return nil, fmt.Errorf("no such gpio %s", name)
		}
	}
	dev, err := pcd8544.NewSPI(port, lines[0], lines[1], lines[2], lines[3], opts)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return &display{dev: dev, close: port.Close}, nil
}

func openEmulator(opts *pcd8544.Opts) (*display, error) {
	e := emulator.New(&emulator.Opts{AutoRefresh: true})
	dev, err := pcd8544.NewSPI(e, e.DC, e.CE, e.RST, e.Light, opts)
	if err != nil {
		return nil, err
	}
	return &display{dev: dev, close: e.Halt, refresh: e.Refresh}, nil
}

func mainImpl() error {
	backend := flag.String("backend", "host", "one of host, ftdi, spidev or emulator")
	bus := flag.String("spi", "", "SPI port to use with the host backend")
	spidev := flag.String("spidev", "/dev/spidev0.0", "spidev node to use with the spidev backend")
	dc := flag.String("dc", "GPIO23", "D/C line")
	ce := flag.String("ce", "GPIO8", "SCE line")
	rst := flag.String("rst", "GPIO24", "RST line")
	light := flag.String("light", "GPIO18", "LIGHT line")
	contrast := flag.Uint("contrast", uint(pcd8544.DefaultOpts.Contrast), "contrast (Vop), 0 to 127")
	invert := flag.Bool("invert", false, "invert the display")
	backlight := flag.Bool("backlight", true, "turn the backlight on")
	fontName := flag.String("font", "goregular", "font of the title: goregular or basic")
	title := flag.String("text", "periph", "title")
	caption := flag.String("caption", "PCD8544", "caption drawn with tinyfont")
	imgPath := flag.String("image", "", "image to show instead of the title")
	hold := flag.Duration("hold", 5*time.Second, "time to keep the screen on before powering down")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if *contrast > 0x7F {
		return fmt.Errorf("contrast %d is out of range", *contrast)
	}

	opts := pcd8544.DefaultOpts
	opts.Contrast = byte(*contrast)
	p := pins{dc: *dc, ce: *ce, rst: *rst, light: *light}
	var d *display
	var err error
	switch *backend {
	case "host":
		d, err = openHost(*bus, p, &opts)
	case "spidev":
		d, err = openSpidevDisplay(*spidev, p, &opts)
	case "ftdi":
		d, err = openFTDI(&opts)
	case "emulator":
		d, err = openEmulator(&opts)
	default:
		return fmt.Errorf("unknown backend %q", *backend)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := d.close(); err != nil {
			logrus.WithError(err).Warn("close")
		}
	}()
	logrus.WithFields(logrus.Fields{"backend": *backend, "device": d.dev}).Debug("opened")

	if err := d.dev.Init(); err != nil {
		return err
	}
	if err := d.dev.SetBacklight(*backlight); err != nil {
		return err
	}
	if err := d.dev.Invert(*invert); err != nil {
		return err
	}

	var img image.Image
	if *imgPath != "" {
		src, err := imaging.Open(*imgPath)
		if err != nil {
			return err
		}
		logrus.WithField("bounds", src.Bounds()).Debug("loaded image")
		img = dither(src)
	} else {
		face, err := fontFace(*fontName, 12)
		if err != nil {
			return err
		}
		img = scene(face, *title)
	}
	start := time.Now()
	if err := d.dev.Draw(d.dev.Bounds(), img, image.Point{}); err != nil {
		return err
	}
	logrus.WithField("duration", time.Since(start)).Debug("flushed")

	if *caption != "" && *imgPath == "" {
		td := tinydisplay.New(d.dev)
		tinyfont.WriteLine(td, &proggy.TinySZ8pt7b, 4, pcd8544.Height-4, *caption, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
		if err := td.Display(); err != nil {
			return err
		}
	}
	if d.refresh != nil {
		if err := d.refresh(); err != nil {
			return err
		}
	}

	logrus.WithField("hold", *hold).Info("showing")
	time.Sleep(*hold)
	return d.dev.Halt()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "pcd8544demo: %s.\n", err)
		os.Exit(1)
	}
}

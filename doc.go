// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pcd8544 controls a monochrome 84x48 LCD via a PCD8544 controller,
// the panel found in Nokia 5110 and 3310 handsets and on many cheap
// breakout boards.
//
// The controller is write only. It is driven over SPI (mode 0, up to 4MHz)
// plus four GPIO lines: D/C selects between command and data bytes, SCE
// (chip enable) frames every byte, RST resets the controller and LIGHT powers
// the backlight LEDs. On most breakout boards the backlight is active low.
//
// The driver keeps the whole picture in a 504 bytes framebuffer organized
// the way the controller's display RAM is: 6 banks of 8 pixel high columns,
// least significant bit at the top. Pixel writes only touch the
// framebuffer; nothing is sent until Flush is called, which lets any number
// of pixel changes be coalesced into a single transfer.
//
// Dev implements display.Drawer so any image.Image can be drawn with Draw,
// and the smaller Surface interface for pixel level access.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/Monochrome/Nokia5110.pdf
package pcd8544

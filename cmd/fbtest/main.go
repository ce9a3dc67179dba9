package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/video/config"
	"github.com/BeatGlow/video/draw"
	"github.com/BeatGlow/video/framebuffer"
)

func main() {
	configFlag := flag.String("config", "", "Configuration file")
	deviceFlag := flag.String("device", "", "Framebuffer device (overrides config)")
	blPinFlag := flag.String("bl", "", "Backlight GPIO pin (overrides config)")
	patternFlag := flag.String("pattern", "gradient", "Test pattern (gradient or bars)")
	framesFlag := flag.Int("frames", 0, "Number of frames to present (default: until interrupted)")
	flag.Parse()

	c, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	if *deviceFlag != "" {
		c.Framebuffer.Device = *deviceFlag
	}
	if *blPinFlag != "" {
		c.Framebuffer.Backlight = *blPinFlag
	}
	log := c.Log.Logger(os.Stderr)

	var backlight gpio.PinOut
	if c.Framebuffer.Backlight != "" {
		if _, err = host.Init(); err != nil {
			fatal(err)
		}
		if backlight = gpioreg.ByName(c.Framebuffer.Backlight); backlight == nil {
			fatal(fmt.Errorf("no backlight pin named %q", c.Framebuffer.Backlight))
		}
	}

	fb, err := framebuffer.Open(&framebuffer.Config{
		Device:    c.Framebuffer.Device,
		Backlight: backlight,
		Logger:    log,
	})
	if err != nil {
		fatal(err)
	}
	defer fb.Close()
	fmt.Printf("using %s\n", fb)
	for _, mode := range fb.Modes() {
		fmt.Printf("mode: %s\n", mode)
	}

	surface, err := fb.CreateSurface()
	if err != nil {
		fatal(err)
	}
	defer fb.DestroySurface()

	face, err := draw.NewFace(24, 72)
	if err != nil {
		fatal(err)
	}
	defer face.Close()

	var (
		output  = surface.Image()
		r       = output.Bounds()
		label   = fb.Name()
		size    = draw.TextSize(label, face)
		panel   = image.Rectangle{Max: size.Add(image.Pt(32, 16))}.Add(r.Min.Add(image.Pt(16, 16)))
		ticker  = time.NewTicker(time.Second / time.Duration(c.Framebuffer.FPS))
		signals = make(chan os.Signal, 1)
	)
	defer ticker.Stop()
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	var (
		damage draw.Damage
		offset int
		frames int
	)
	output.Clear()
	damage.Add(r)

	for {
		switch *patternFlag {
		case "bars":
			if offset == 0 {
				draw.ColorBars(output, r)
			}
		default:
			draw.Gradient(output, r, offset)
		}

		draw.RoundedBox(output, panel, 8, color.Black)
		draw.RoundedRectangle(output, panel, 8, color.White)
		draw.Text(output, panel.Min.Add(image.Pt(16, 8+face.Metrics().Ascent.Ceil())), label, face, color.White)
		damage.Add(r)

		if err = fb.UpdateSurface(damage.Rects()); err != nil {
			fatal(err)
		}
		offset++
		if frames++; *framesFlag > 0 && frames >= *framesFlag {
			return
		}

		select {
		case <-ticker.C:
		case sig := <-signals:
			log.Info("stopping", "signal", sig, "frames", frames)
			return
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/BeatGlow/video"
	"github.com/BeatGlow/video/config"
	"github.com/BeatGlow/video/touch"
	"github.com/BeatGlow/video/x11"
)

const windowEvents = xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskEnterWindow |
	xproto.EventMaskLeaveWindow |
	xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskFocusChange |
	xproto.EventMaskPropertyChange

func main() {
	configFlag := flag.String("config", "", "Configuration file")
	displayFlag := flag.String("display", "", "X display (default: $DISPLAY)")
	widthFlag := flag.Int("width", 640, "Window width")
	heightFlag := flag.Int("height", 480, "Window height")
	traceFlag := flag.Bool("trace", false, "Log every X11 event")
	flag.Parse()

	c, err := config.Load(*configFlag)
	if err != nil {
		fatal(err)
	}
	if *displayFlag != "" {
		c.X11.Display = *displayFlag
	}
	if *traceFlag {
		c.Log.Trace = true
	}
	log := c.Log.Logger(os.Stderr)

	conn, err := x11.Dial(c.X11.Display, log)
	if err != nil {
		fatal(err)
	}
	defer conn.Close()

	handle, err := createWindow(conn, *widthFlag, *heightFlag, log)
	if err != nil {
		fatal(err)
	}
	defer xproto.DestroyWindow(conn.X(), handle)

	keys, err := x11.NewKeymap(conn)
	if err != nil {
		fatal(err)
	}

	var (
		windows = x11.NewRegistry()
		window  = &x11.Window{Handle: handle, ID: 1}
		queue   = video.NewQueue()
		tconfig = c.TranslatorConfig()
	)
	window.SetGeometry(0, 0, *widthFlag, *heightFlag)
	queue.SysWM = c.X11.SysWM
	tconfig.Logger = log
	if c.X11.Compose {
		im := x11.NewCompose(keys)
		tconfig.InputMethod = im
		window.IC = im.NewContext()
	}
	if err = windows.Add(window); err != nil {
		fatal(err)
	}
	defer windows.Close()

	translator := x11.NewTranslator(conn, keys, windows, queue, &tconfig)
	for i, path := range c.Touch.Devices {
		src, err := touch.OpenEvdev(path)
		if err != nil {
			log.Warn("could not open touch device", "device", path, "err", err)
			continue
		}
		dev := touch.New(int64(i), src, queue, log)
		defer dev.Close()
		translator.AddTouch(dev)
		log.Info("using touch device", "device", path, "touch", dev.ID())
	}

	var (
		ticker  = time.NewTicker(c.X11.PumpInterval.Duration)
		signals = make(chan os.Signal, 1)
	)
	defer ticker.Stop()
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
		case sig := <-signals:
			log.Info("stopping", "signal", sig)
			return
		}

		translator.PumpEvents()
		for _, ev := range queue.Drain() {
			log.Info("event", "event", ev, "keyboard_focus", queue.KeyboardFocus(), "mouse_focus", queue.MouseFocus())
			if ev.Type == video.EventWindow && ev.WindowEvent == video.WindowClose {
				return
			}
		}
	}
}

// createWindow creates and maps a top level window that takes part in the
// delete window and ping protocols.
func createWindow(conn *x11.Conn, width, height int, log *slog.Logger) (xproto.Window, error) {
	x := conn.X()
	screen := conn.Screen()

	handle, err := xproto.NewWindowId(x)
	if err != nil {
		return 0, fmt.Errorf("x11: window id: %w", err)
	}
	if err = xproto.CreateWindowChecked(x, screen.RootDepth, handle, screen.Root,
		0, 0, uint16(width), uint16(height), 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{screen.BlackPixel, windowEvents},
	).Check(); err != nil {
		return 0, fmt.Errorf("x11: create window: %w", err)
	}

	atoms := conn.Atoms()
	protocols := make([]byte, 8)
	xgb.Put32(protocols, uint32(atoms.WMDeleteWindow))
	xgb.Put32(protocols[4:], uint32(atoms.NetWMPing))
	if err = conn.ChangeProperty(handle, atoms.WMProtocols, xproto.AtomAtom, 32, 2, protocols); err != nil {
		return 0, fmt.Errorf("x11: set WM_PROTOCOLS: %w", err)
	}

	title := "x11pump"
	if err = conn.ChangeProperty(handle, xproto.AtomWmName, xproto.AtomString, 8, uint32(len(title)), []byte(title)); err != nil {
		log.Debug("could not set window title", "err", err)
	}

	if err = xproto.MapWindowChecked(x, handle).Check(); err != nil {
		return 0, fmt.Errorf("x11: map window: %w", err)
	}
	return handle, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}

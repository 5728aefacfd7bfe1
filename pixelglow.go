// Package pixelglow implements the pixelglow daemon, which plays a scene of
// color transitions on an addressable LED strip.
package pixelglow

import (
	"context"
	"io"
	"log/slog"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/pixelglow/internal/termstrip"
	"libdb.so/pixelglow/led"
	"libdb.so/pixelglow/ledanim"
)

// Daemon is the main pixelglow daemon.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
	clock  clock.Clock

	// openPort opens the controller serial port.
	openPort func(device string, mode *serial.Mode) (io.ReadWriteCloser, error)
}

// NewDaemon creates a new pixelglow daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		clock:    clock.New(),
		openPort: openSerialPort,
	}, nil
}

func openSerialPort(device string, mode *serial.Mode) (io.ReadWriteCloser, error) {
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}
	return port, nil
}

// Run starts the daemon. It blocks until the given context is canceled, the
// transport fails or, for the terminal transport, the user quits.
func (d *Daemon) Run(ctx context.Context) error {
	switch d.cfg.Transport {
	case TerminalTransport:
		return d.runTerminal(ctx)
	default:
		return d.runSerial(ctx)
	}
}

func (d *Daemon) runSerial(ctx context.Context) error {
	port, err := d.openPort(d.cfg.Device, &serial.Mode{
		BaudRate: d.cfg.Baud,
	})
	if err != nil {
		return errors.Wrap(err, "failed to open serial port")
	}
	defer port.Close()

	tx := newSerialTransport(port, d.cfg.NumLEDs, d.logger)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		<-ctx.Done()
		d.logger.Debug("closing serial port")
		if err := port.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})
	errg.Go(func() error {
		return tx.Run(ctx)
	})
	errg.Go(func() error {
		d.logger.Debug("sending initialize packet")
		if err := tx.Initialize(); err != nil {
			return errors.Wrap(err, "failed to initialize LEDs")
		}
		return d.play(ctx, tx)
	})

	return errg.Wait()
}

func (d *Daemon) runTerminal(ctx context.Context) error {
	preview, err := termstrip.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open terminal preview")
	}
	defer preview.Close()

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return preview.Run(ctx)
	})
	errg.Go(func() error {
		return d.play(ctx, preview)
	})

	return errg.Wait()
}

// play shows the default color, plays the scene on tx and then keeps the
// last frame up until ctx is canceled.
func (d *Daemon) play(ctx context.Context, tx led.Transport) error {
	strip, err := led.NewStrip(d.cfg.NumLEDs, tx)
	if err != nil {
		return err
	}

	anim, err := ledanim.New(strip, ledanim.Config{
		DefaultFPS:   d.cfg.FPS,
		DefaultColor: d.cfg.DefaultColor,
		Clock:        d.clock,
		Logger:       d.logger,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create animator")
	}

	// The animator starts from the default color, so put it on the strip.
	strip.Fill(d.cfg.DefaultColor)
	if err := strip.Flush(); err != nil {
		return err
	}

	player := NewPlayer(anim, d.cfg, d.clock, d.logger)
	if err := player.Run(ctx); err != nil {
		return errors.Wrap(err, "scene failed")
	}

	d.logger.Info(
		"scene finished",
		"color", anim.LatestColor().Hex())

	<-ctx.Done()
	return ctx.Err()
}

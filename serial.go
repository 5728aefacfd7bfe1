package pixelglow

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	"libdb.so/pixelglow/led"
	"libdb.so/pixelglow/ledserial"
)

// serialTransport sends frames to the controller as ledserial set packets.
//
// Only one packet is in flight at a time. Frames transmitted while waiting
// for an ack replace each other, and the newest one is sent once the ack
// arrives.
type serialTransport struct {
	rw      io.ReadWriter
	logger  *slog.Logger
	numLEDs int

	mu      sync.Mutex
	waiting bool
	pending []uint32
}

var _ led.Transport = (*serialTransport)(nil)

func newSerialTransport(rw io.ReadWriter, numLEDs int, logger *slog.Logger) *serialTransport {
	return &serialTransport{
		rw:      rw,
		logger:  logger,
		numLEDs: numLEDs,
	}
}

// Initialize tells the controller the strip length. Frames transmitted before
// it is acknowledged are held back.
func (t *serialTransport) Initialize() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.waiting = true
	return t.writePacket(ledserial.InitializePacket{
		NumLEDs: uint16(t.numLEDs),
	})
}

// Transmit implements led.Transport.
func (t *serialTransport) Transmit(words []uint32) error {
	if len(words) != t.numLEDs {
		return errors.Errorf("frame has %d pixels, controller has %d", len(words), t.numLEDs)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.waiting {
		if t.pending == nil {
			t.pending = make([]uint32, len(words))
		}
		copy(t.pending, words)
		return nil
	}

	t.waiting = true
	return t.writePacket(ledserial.SetPacket{Words: words})
}

// acked releases the in-flight packet and sends the pending frame, if any.
func (t *serialTransport) acked() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending == nil {
		t.waiting = false
		return nil
	}

	pending := t.pending
	t.pending = nil
	return t.writePacket(ledserial.SetPacket{Words: pending})
}

// writePacket writes p. t.mu must be held.
func (t *serialTransport) writePacket(p ledserial.IncomingPacket) error {
	t.logger.Debug(
		"writing packet",
		"type", p.Type())

	if err := ledserial.WriteIncomingPacket(t.rw, p); err != nil {
		return errors.Wrapf(err, "failed to write %s packet", p.Type())
	}
	return nil
}

// Run reads packets from the controller until ctx is canceled or the
// controller reports a failure.
func (t *serialTransport) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		p, err := ledserial.ReadOutgoingPacket(t.rw)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A short read indicates a timeout. This is expected.
			// Ignore the error and try again.
			if errors.Is(err, io.EOF) {
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}

		if err := t.handlePacket(p); err != nil {
			return err
		}
	}

	return ctx.Err()
}

func (t *serialTransport) handlePacket(p ledserial.OutgoingPacket) error {
	switch p := p.(type) {
	case ledserial.AckPacket:
		t.logger.Debug(
			"received ack packet from controller",
			"acked_for", p.IncomingPacketType)
		return t.acked()

	case ledserial.LogPacket:
		t.logger.Info(
			"received log packet from controller",
			"message", p.Message)
		return nil

	case ledserial.ErrorPacket:
		t.logger.Warn(
			"received error packet from controller",
			"message", p.Message)
		return errors.Errorf("controller reported error: %s", p.Message)

	case ledserial.PanicPacket:
		t.logger.Error(
			"controller unrecoverably panicked",
			"message", p.Message)
		return errors.New("controller panicked")

	default:
		return errors.Errorf("received unknown packet from controller: %s", p.Type())
	}
}

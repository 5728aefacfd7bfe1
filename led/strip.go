package led

import (
	"math/bits"
	"sync"

	"github.com/pkg/errors"
)

// Transport transmits a buffer of encoded words to the LED hardware. The
// words slice is only valid for the duration of the call.
type Transport interface {
	Transmit(words []uint32) error
}

// TransportFunc is a function that implements Transport.
type TransportFunc func(words []uint32) error

// Transmit calls f(words).
func (f TransportFunc) Transmit(words []uint32) error { return f(words) }

// Encode encodes a color into the word layout read by the WS2812 shift
// register: each 8-bit channel has its bit order reversed, then the channels
// are packed as B, R, G from the most significant byte down.
//
//	Encode(RGBColor{255, 255, 0}) == 0b000000001111111111111111
func Encode(c RGBColor) uint32 {
	r, g, b := c.Bytes()
	return uint32(bits.Reverse8(b))<<16 |
		uint32(bits.Reverse8(r))<<8 |
		uint32(bits.Reverse8(g))
}

// Decode reverses Encode. The most significant byte of the word is ignored.
func Decode(word uint32) (r, g, b uint8) {
	b = bits.Reverse8(uint8(word >> 16))
	r = bits.Reverse8(uint8(word >> 8))
	g = bits.Reverse8(uint8(word))
	return r, g, b
}

// Strip owns the encoded pixel buffer of an LED strip. Its length is fixed at
// construction.
type Strip struct {
	mu    sync.Mutex
	words []uint32
	tx    Transport
}

// NewStrip creates a strip of numLEDs pixels, all off. A nil transport makes
// Flush a no-op.
func NewStrip(numLEDs int, tx Transport) (*Strip, error) {
	if numLEDs <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "strip needs at least one LED, got %d", numLEDs)
	}

	return &Strip{
		words: make([]uint32, numLEDs),
		tx:    tx,
	}, nil
}

// Len returns the number of LEDs in the strip.
func (s *Strip) Len() int {
	return len(s.words)
}

// Set sets the color of the LED at index i.
func (s *Strip) Set(i int, c RGBColor) error {
	return s.SetWord(i, Encode(c))
}

// SetWord sets the raw encoded word of the LED at index i.
func (s *Strip) SetWord(i int, word uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.words) {
		return errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0, %d)", i, len(s.words))
	}

	s.words[i] = word
	return nil
}

// SetIndices sets every LED listed in indices to the same color. Nothing is
// written if any index is out of range.
func (s *Strip) SetIndices(indices []int, c RGBColor) error {
	word := Encode(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, i := range indices {
		if i < 0 || i >= len(s.words) {
			return errors.Wrapf(ErrIndexOutOfRange, "index %d not in [0, %d)", i, len(s.words))
		}
	}
	for _, i := range indices {
		s.words[i] = word
	}
	return nil
}

// Fill sets every LED to the same color.
func (s *Strip) Fill(c RGBColor) {
	word := Encode(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.words {
		s.words[i] = word
	}
}

// ReplaceBuffer atomically replaces the whole buffer with a copy of words.
// words must have exactly Len elements.
func (s *Strip) ReplaceBuffer(words []uint32) error {
	if len(words) != len(s.words) {
		return errors.Wrapf(ErrInvalidConfiguration,
			"replacement buffer has %d words, strip has %d LEDs", len(words), len(s.words))
	}

	buf := make([]uint32, len(words))
	copy(buf, words)

	s.mu.Lock()
	s.words = buf
	s.mu.Unlock()

	return nil
}

// Words returns a copy of the encoded buffer.
func (s *Strip) Words() []uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	words := make([]uint32, len(s.words))
	copy(words, s.words)
	return words
}

// Flush hands the buffer to the transport.
func (s *Strip) Flush() error {
	if s.tx == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tx.Transmit(s.words); err != nil {
		return errors.Wrap(err, "failed to transmit pixels")
	}
	return nil
}

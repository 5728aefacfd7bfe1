// Package termstrip previews an LED strip in the terminal.
package termstrip

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"libdb.so/pixelglow/led"
)

// ErrQuit is returned by Run when the user asks to quit.
var ErrQuit = errors.New("quit requested")

// pixelRune is drawn once per LED.
const pixelRune = '█'

// Preview draws every transmitted frame onto a terminal screen, one cell per
// LED, wrapping at the screen width.
type Preview struct {
	screen tcell.Screen

	mu    sync.Mutex
	words []uint32
}

var _ led.Transport = (*Preview)(nil)

// Open initializes the terminal screen and returns a preview drawing on it.
func Open() (*Preview, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create screen")
	}

	if err := screen.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize screen")
	}

	return New(screen), nil
}

// New creates a preview drawing on an initialized screen.
func New(screen tcell.Screen) *Preview {
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.Clear()
	return &Preview{screen: screen}
}

// Close restores the terminal.
func (p *Preview) Close() {
	p.screen.Fini()
}

// Transmit implements led.Transport.
func (p *Preview) Transmit(words []uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cap(p.words) < len(words) {
		p.words = make([]uint32, len(words))
	}
	p.words = p.words[:len(words)]
	copy(p.words, words)

	p.draw()
	return nil
}

// draw renders p.words. p.mu must be held.
func (p *Preview) draw() {
	width, _ := p.screen.Size()
	if width <= 0 {
		return
	}

	p.screen.Clear()
	for i, word := range p.words {
		p.screen.SetContent(i%width, i/width, pixelRune, nil, pixelStyle(word))
	}
	p.screen.Show()
}

func pixelStyle(word uint32) tcell.Style {
	r, g, b := led.Decode(word)
	color := tcell.NewRGBColor(int32(r), int32(g), int32(b))
	return tcell.StyleDefault.Foreground(color).Background(tcell.ColorBlack)
}

// Run handles terminal events until ctx is canceled or the user presses q,
// Escape or Ctrl-C, in which case ErrQuit is returned.
func (p *Preview) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			p.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	for {
		switch ev := p.screen.PollEvent().(type) {
		case nil:
			// The screen was finalized.
			return ctx.Err()

		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}

		case *tcell.EventResize:
			p.mu.Lock()
			p.draw()
			p.mu.Unlock()
			p.screen.Sync()

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				return ErrQuit
			}
		}
	}
}

package main

import (
	"fmt"
	"image/color"
	"machine"
	"runtime/interrupt"

	"libdb.so/pixelglow/led"
	"libdb.so/pixelglow/ledserial"
	"tinygo.org/x/drivers/ws2812"
)

// Device stores the current state of the device.
type Device struct {
	serial SerialReadWriter
	led    ws2812.Device

	numLEDs uint16
	pixels  []color.RGBA
}

// NewDevice creates a new device.
func NewDevice(serial machine.Serialer, ledPin machine.Pin) *Device {
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Device{
		serial: WrapSerial(serial),
		led:    ws2812.New(ledPin),
	}
}

// Run runs the device loop forever.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			d.logError(err)
			continue
		}

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
			continue
		}

		// The host only sends the next frame once this arrives.
		d.sendPacket(ledserial.AckPacket{
			IncomingPacketType: p.Type(),
		})
	}
}

func (d *Device) log(msg string) {
	d.sendPacket(ledserial.LogPacket{Message: msg})
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	turnOnMainLED(255, 255, 255)

	p, err := ledserial.ReadIncomingPacket(d.serial, ledserial.ReadContext{
		NumLEDs: d.numLEDs,
	})

	turnOffMainLED()
	return p, err
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		d.numLEDs = p.NumLEDs
		d.pixels = make([]color.RGBA, p.NumLEDs)
		d.signalReady()
		d.log(fmt.Sprintf("initialized %d LEDs", p.NumLEDs))

	case ledserial.ClearPacket:
		d.clear()
		d.show()

	case ledserial.SetPacket:
		if len(p.Words) != len(d.pixels) {
			return fmt.Errorf("set packet has %d pixels, strip has %d", len(p.Words), len(d.pixels))
		}
		for i, word := range p.Words {
			r, g, b := led.Decode(word)
			d.pixels[i] = color.RGBA{R: r, G: g, B: b, A: 0xFF}
		}
		d.show()

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	return nil
}

// signalReady lights the first LED red and the last one blue so the strip
// ends can be checked after initialization.
func (d *Device) signalReady() {
	d.clear()
	d.pixels[0] = color.RGBA{R: 0xFF, A: 0xFF}
	if len(d.pixels) > 1 {
		d.pixels[len(d.pixels)-1] = color.RGBA{B: 0xFF, A: 0xFF}
	}
	d.show()
}

func (d *Device) clear() {
	for i := range d.pixels {
		d.pixels[i] = color.RGBA{A: 0xFF}
	}
}

func (d *Device) show() {
	critical(func() { d.led.WriteColors(d.pixels) })
}

// critical runs f with interrupts disabled. The WS2812 timing is too tight to
// survive an interrupt.
func critical(f func()) {
	state := interrupt.Disable()
	f()
	interrupt.Restore(state)
}

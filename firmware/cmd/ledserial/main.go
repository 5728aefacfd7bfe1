// Command ledserial is the strip controller firmware for the Seeed XIAO
// RP2040. It drives a WS2812 strip on D10 from ledserial packets received over
// the USB serial port.
package main

import "machine"

func main() {
	NewDevice(machine.Serial, machine.D10).Run()
}

package pca9685

import "time"

// Register map and MODE1 bits. These are fixed by the chip.
const (
	regMode1    = 0x00
	regLED0OnL  = 0x06 // channel N starts at regLED0OnL + 4*N
	regAllOnL   = 0xFA // ALL_LED_ON_L..ALL_LED_OFF_H
	regPrescale = 0xFE

	regsPerChannel = 4

	mode1Restart = 0x80
	mode1AutoInc = 0x20
	mode1Sleep   = 0x10
)

const (
	DefaultAddress     = 0x40
	DefaultFrequencyHz = 500.0

	// Channels is the number of PWM outputs.
	Channels = 16
	// Steps is the length of one PWM cycle in ticks.
	Steps = 4096
	// MaxDuty is the largest duty value accepted by SetChannel.
	MaxDuty = Steps - 1
	// FullTick in the on or off field holds the output at that level for
	// the whole cycle and overrides the paired field.
	FullTick = Steps

	oscClockHz = 25000000.0
	// The chip runs faster than the datasheet formula predicts; the
	// requested frequency is scaled down before computing the prescaler.
	freqCorrection = 0.9

	prescaleMin = 3
	prescaleMax = 255

	resetSettle = 10 * time.Millisecond
	oscSettle   = 5 * time.Millisecond
)

func channelReg(ch int) byte {
	return byte(regLED0OnL + regsPerChannel*ch)
}

package pca9685

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var sleep = time.Sleep

// Driver for the PCA9685 16-channel, 12-bit PWM controller.
//
// The driver keeps no copy of chip state: every operation reads what it
// needs from the chip and writes the result back in the same call.

var (
	ErrNilTransport   = errors.New("pca9685: transport is nil")
	ErrInvalidAddress = errors.New("pca9685: invalid i2c address")
	ErrInvalidChannel = errors.New("pca9685: channel out of range")
	ErrInvalidTick    = errors.New("pca9685: tick out of range")
	ErrFrequencyRange = errors.New("pca9685: frequency out of range")
)

// Transport is the bus the chip sits on. Write and Read are each one
// complete transaction addressed to a 7-bit device address.
//
// The driver never closes the transport; its owner does.
type Transport interface {
	Open() error
	Write(addr uint16, p []byte) error
	Read(addr uint16, p []byte) error
}

type Config struct {
	// Address is the 7-bit device address. Zero selects DefaultAddress.
	Address uint16
	// FrequencyHz is applied by Begin. Zero selects DefaultFrequencyHz.
	FrequencyHz float64
	// WireDelay is slept after each write transaction. Some bus/chip
	// combinations drop back-to-back transactions without it.
	WireDelay time.Duration
}

type Device struct {
	bus       Transport
	addr      uint16
	freqHz    float64
	wireDelay time.Duration
}

func New(bus Transport, cfg Config) (*Device, error) {
	if bus == nil {
		return nil, ErrNilTransport
	}
	if cfg.Address == 0 {
		cfg.Address = DefaultAddress
	}
	if cfg.Address > 0x7F {
		return nil, fmt.Errorf("%w: 0x%X", ErrInvalidAddress, cfg.Address)
	}
	if cfg.FrequencyHz == 0 {
		cfg.FrequencyHz = DefaultFrequencyHz
	}
	if cfg.WireDelay < 0 {
		cfg.WireDelay = 0
	}
	return &Device{
		bus:       bus,
		addr:      cfg.Address,
		freqHz:    cfg.FrequencyHz,
		wireDelay: cfg.WireDelay,
	}, nil
}

func (d *Device) Address() uint16 { return d.addr }

// Begin opens the bus, resets the chip and programs the configured
// frequency. It must succeed before any PWM output is trusted.
func (d *Device) Begin() error {
	if err := d.bus.Open(); err != nil {
		return fmt.Errorf("pca9685: open bus: %w", err)
	}
	if err := d.Reset(); err != nil {
		return err
	}
	return d.SetFrequency(d.freqHz)
}

// Reset sets MODE1 to restart with the oscillator running and waits for
// it to settle.
func (d *Device) Reset() error {
	if err := d.write(regMode1, mode1Restart); err != nil {
		return err
	}
	sleep(resetSettle)
	return nil
}

// Prescale returns the PRESCALE register value for the requested output
// frequency.
func Prescale(hz float64) (byte, error) {
	if math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
		return 0, fmt.Errorf("%w: %v Hz", ErrFrequencyRange, hz)
	}
	corrected := hz * freqCorrection
	v := oscClockHz/Steps/corrected - 1
	p := math.Floor(v + 0.5)
	if p < prescaleMin || p > prescaleMax {
		return 0, fmt.Errorf("%w: %v Hz (prescale %.0f outside %d..%d)", ErrFrequencyRange, hz, p, prescaleMin, prescaleMax)
	}
	return byte(p), nil
}

// Frequency is the requested frequency that maps back onto prescale p.
func Frequency(p byte) float64 {
	return oscClockHz / Steps / (float64(p) + 1) / freqCorrection
}

// SetFrequency programs the PWM frequency for all channels.
//
// PRESCALE is only writable while the oscillator is asleep, so MODE1 is
// read, put to sleep, restored and finally written with auto-increment on.
// SetPWM depends on that last write.
func (d *Device) SetFrequency(hz float64) error {
	prescale, err := Prescale(hz)
	if err != nil {
		return err
	}

	oldMode, err := d.read(regMode1)
	if err != nil {
		return err
	}
	sleepMode := (oldMode &^ mode1Restart) | mode1Sleep
	if err := d.write(regMode1, sleepMode); err != nil {
		return err
	}
	if err := d.write(regPrescale, prescale); err != nil {
		return err
	}
	if err := d.write(regMode1, oldMode); err != nil {
		return err
	}
	sleep(oscSettle)
	return d.write(regMode1, oldMode|mode1Restart|mode1AutoInc)
}

// SetPWM sets the raw on/off window of one channel. Either tick may be
// FullTick.
func (d *Device) SetPWM(ch int, on, off uint16) error {
	if ch < 0 || ch >= Channels {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	if err := checkTicks(on, off); err != nil {
		return err
	}
	return d.writeWindow(channelReg(ch), on, off)
}

// SetAllPWM sets the same raw window on every channel in one transaction.
func (d *Device) SetAllPWM(on, off uint16) error {
	if err := checkTicks(on, off); err != nil {
		return err
	}
	return d.writeWindow(regAllOnL, on, off)
}

// SetChannel drives ch at duty/4095. With invert the output is low for
// duty ticks instead of high, for loads sinking to ground.
func (d *Device) SetChannel(ch int, duty uint16, invert bool) error {
	on, off := Window(duty, invert)
	return d.SetPWM(ch, on, off)
}

func (d *Device) SetAllChannels(duty uint16, invert bool) error {
	on, off := Window(duty, invert)
	return d.SetAllPWM(on, off)
}

// Window maps a duty value onto an on/off tick pair. Duty is clamped to
// MaxDuty. The extremes use FullTick: a 0..4095 window would still leave
// the output in the other state for one tick of every cycle.
func Window(duty uint16, invert bool) (on, off uint16) {
	if duty > MaxDuty {
		duty = MaxDuty
	}
	if invert {
		switch duty {
		case 0:
			return FullTick, 0
		case MaxDuty:
			return 0, FullTick
		default:
			return 0, MaxDuty - duty
		}
	}
	switch duty {
	case MaxDuty:
		return FullTick, 0
	case 0:
		return 0, FullTick
	default:
		return 0, duty
	}
}

func checkTicks(on, off uint16) error {
	if on > FullTick {
		return fmt.Errorf("%w: on=%d", ErrInvalidTick, on)
	}
	if off > FullTick {
		return fmt.Errorf("%w: off=%d", ErrInvalidTick, off)
	}
	return nil
}

// writeWindow writes the four LEDn registers starting at reg in one
// transaction. Requires MODE1 auto-increment.
func (d *Device) writeWindow(reg byte, on, off uint16) error {
	buf := []byte{
		reg,
		byte(on), byte(on >> 8),
		byte(off), byte(off >> 8),
	}
	if err := d.bus.Write(d.addr, buf); err != nil {
		return fmt.Errorf("pca9685: write reg 0x%02X: %w", reg, err)
	}
	d.delay()
	return nil
}

func (d *Device) write(reg, value byte) error {
	if err := d.bus.Write(d.addr, []byte{reg, value}); err != nil {
		return fmt.Errorf("pca9685: write reg 0x%02X: %w", reg, err)
	}
	d.delay()
	return nil
}

func (d *Device) read(reg byte) (byte, error) {
	if err := d.bus.Write(d.addr, []byte{reg}); err != nil {
		return 0, fmt.Errorf("pca9685: select reg 0x%02X: %w", reg, err)
	}
	d.delay()
	var b [1]byte
	if err := d.bus.Read(d.addr, b[:]); err != nil {
		return 0, fmt.Errorf("pca9685: read reg 0x%02X: %w", reg, err)
	}
	return b[0], nil
}

func (d *Device) delay() {
	if d.wireDelay > 0 {
		sleep(d.wireDelay)
	}
}

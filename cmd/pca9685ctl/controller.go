package main

import (
	"fmt"
	"log"

	"pwmhat/internal/config"
	"pwmhat/internal/outputenable"
	"pwmhat/internal/pca9685"
)

type openPinFunc func(pin int) (outputenable.Pin, error)

// controller applies a config to one chip.
type controller struct {
	cfg    config.Config
	dev    *pca9685.Device
	openOE openPinFunc
	oe     outputenable.Pin
}

func newController(cfg config.Config, bus pca9685.Transport, openOE openPinFunc) (*controller, error) {
	dev, err := pca9685.New(bus, pca9685.Config{
		Address:     cfg.PCA9685.Address,
		FrequencyHz: cfg.PCA9685.FrequencyHz,
		WireDelay:   cfg.PCA9685.WireDelay,
	})
	if err != nil {
		return nil, err
	}
	return &controller{cfg: cfg, dev: dev, openOE: openOE}, nil
}

// Start initializes the chip, programs every configured channel and only
// then enables the outputs.
func (c *controller) Start() error {
	if err := c.dev.Begin(); err != nil {
		return err
	}
	prescale, _ := pca9685.Prescale(c.cfg.PCA9685.FrequencyHz)
	log.Printf("pca9685 ready addr=0x%02X freq_hz=%v prescale=%d", c.dev.Address(), c.cfg.PCA9685.FrequencyHz, prescale)

	for _, ch := range c.cfg.Channels {
		if err := c.dev.SetChannel(ch.Channel, ch.Duty, ch.Invert); err != nil {
			return fmt.Errorf("channel %d: %w", ch.Channel, err)
		}
		log.Printf("pca9685 channel=%d duty=%d invert=%t", ch.Channel, ch.Duty, ch.Invert)
	}

	if !c.cfg.OutputEnable.Enable {
		return nil
	}
	pin, err := c.openOE(c.cfg.OutputEnable.GPIOPin)
	if err != nil {
		return err
	}
	c.oe = pin
	if err := pin.Enable(); err != nil {
		return fmt.Errorf("output enable: %w", err)
	}
	log.Printf("pca9685 outputs enabled gpio=%d", c.cfg.OutputEnable.GPIOPin)
	return nil
}

// Park turns every channel fully off and disables the outputs.
func (c *controller) Park() error {
	var firstErr error
	if c.oe != nil {
		if err := c.oe.Disable(); err != nil {
			firstErr = fmt.Errorf("output disable: %w", err)
		}
	}
	if err := c.dev.SetAllChannels(0, false); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (c *controller) Close() {
	if c.oe != nil {
		_ = c.oe.Close()
		c.oe = nil
	}
}

// Package outputenable drives the PCA9685 OE input. OE is active low:
// high holds every output off regardless of the PWM registers.
package outputenable

import "fmt"

const consumer = "pca9685ctl-oe"

// Pin controls the OE line.
type Pin interface {
	Enable() error
	Disable() error
	// Close leaves outputs disabled and releases the line.
	Close() error
}

// Open is replaced in tests.
var Open = open

func lineName(pin int) (string, error) {
	if pin <= 0 {
		return "", fmt.Errorf("outputenable: invalid gpio pin %d", pin)
	}
	// On Pi, line names are "GPIO17" etc.
	return fmt.Sprintf("GPIO%d", pin), nil
}

// level is the OE line value for the requested output state.
func level(enabled bool) int {
	if enabled {
		return 0
	}
	return 1
}

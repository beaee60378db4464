//go:build !linux || (!arm && !arm64)

package outputenable

import "fmt"

func open(pin int) (Pin, error) {
	if _, err := lineName(pin); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("outputenable: gpio unsupported on this platform")
}

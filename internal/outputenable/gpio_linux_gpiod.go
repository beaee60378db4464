//go:build linux && (arm || arm64)

package outputenable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// open requests the BCM GPIO as an output through the GPIO character
// device. The line starts high so outputs stay off until Enable.
func open(pin int) (Pin, error) {
	name, err := lineName(pin)
	if err != nil {
		return nil, err
	}

	chipCandidates := []string{"/dev/gpiochip0", "/dev/gpiochip4"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", e.Name()))
		}
	}

	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(name)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(level(false)), gpiocdev.WithConsumer(consumer))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &gpiodPin{chip: chip, line: line}, nil
	}

	return nil, fmt.Errorf("outputenable: gpio line %q not found (or busy)", name)
}

type gpiodPin struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (g *gpiodPin) set(enabled bool) error {
	if g == nil || g.line == nil {
		return fmt.Errorf("outputenable: pin not open")
	}
	return g.line.SetValue(level(enabled))
}

func (g *gpiodPin) Enable() error  { return g.set(true) }
func (g *gpiodPin) Disable() error { return g.set(false) }

func (g *gpiodPin) Close() error {
	if g == nil || g.line == nil {
		return nil
	}
	_ = g.line.SetValue(level(false))
	err := g.line.Close()
	g.line = nil
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err
}

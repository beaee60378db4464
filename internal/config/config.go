package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"pwmhat/internal/pca9685"
)

type Config struct {
	I2C          I2CConfig          `yaml:"i2c"`
	PCA9685      PCA9685Config      `yaml:"pca9685"`
	OutputEnable OutputEnableConfig `yaml:"output_enable"`
	Channels     []ChannelConfig    `yaml:"channels"`
}

type I2CConfig struct {
	Bus string `yaml:"bus"`
}

type PCA9685Config struct {
	Address     uint16        `yaml:"address"`
	FrequencyHz float64       `yaml:"frequency_hz"`
	WireDelay   time.Duration `yaml:"wire_delay"`
}

type OutputEnableConfig struct {
	Enable bool `yaml:"enable"`
	// GPIOPin is BCM numbering.
	GPIOPin int `yaml:"gpio_pin"`
}

type ChannelConfig struct {
	Channel int    `yaml:"channel"`
	Duty    uint16 `yaml:"duty"`
	Invert  bool   `yaml:"invert"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Pre-set so an absent wire_delay keeps 1ms while an explicit 0s disables it.
	cfg := Config{PCA9685: PCA9685Config{WireDelay: 1 * time.Millisecond}}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.I2C.Bus == "" {
		cfg.I2C.Bus = "/dev/i2c-1"
	}

	if cfg.PCA9685.Address == 0 {
		cfg.PCA9685.Address = pca9685.DefaultAddress
	}
	if cfg.PCA9685.Address > 0x7F {
		return Config{}, fmt.Errorf("pca9685.address must be between 0x01 and 0x7f")
	}
	if cfg.PCA9685.FrequencyHz == 0 {
		cfg.PCA9685.FrequencyHz = pca9685.DefaultFrequencyHz
	}
	if _, err := pca9685.Prescale(cfg.PCA9685.FrequencyHz); err != nil {
		return Config{}, fmt.Errorf("pca9685.frequency_hz %v is outside the chip's range", cfg.PCA9685.FrequencyHz)
	}
	if cfg.PCA9685.WireDelay < 0 {
		return Config{}, fmt.Errorf("pca9685.wire_delay must be >= 0")
	}

	if cfg.OutputEnable.Enable && cfg.OutputEnable.GPIOPin <= 0 {
		return Config{}, fmt.Errorf("output_enable.gpio_pin is required when output_enable.enable is true")
	}

	seen := make(map[int]bool, len(cfg.Channels))
	for i, ch := range cfg.Channels {
		if ch.Channel < 0 || ch.Channel >= pca9685.Channels {
			return Config{}, fmt.Errorf("channels[%d].channel must be between 0 and %d", i, pca9685.Channels-1)
		}
		if ch.Duty > pca9685.MaxDuty {
			return Config{}, fmt.Errorf("channels[%d].duty must be between 0 and %d", i, pca9685.MaxDuty)
		}
		if seen[ch.Channel] {
			return Config{}, fmt.Errorf("channels[%d].channel %d is listed more than once", i, ch.Channel)
		}
		seen[ch.Channel] = true
	}

	return cfg, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.I2C.Bus != "/dev/i2c-1" {
		t.Fatalf("bus=%q want /dev/i2c-1", cfg.I2C.Bus)
	}
	if cfg.PCA9685.Address != 0x40 {
		t.Fatalf("address=0x%X want 0x40", cfg.PCA9685.Address)
	}
	if cfg.PCA9685.FrequencyHz != 500 {
		t.Fatalf("frequency_hz=%v want 500", cfg.PCA9685.FrequencyHz)
	}
	if cfg.PCA9685.WireDelay != time.Millisecond {
		t.Fatalf("wire_delay=%s want 1ms", cfg.PCA9685.WireDelay)
	}
	if cfg.OutputEnable.Enable {
		t.Fatalf("output_enable should default off")
	}
	if len(cfg.Channels) != 0 {
		t.Fatalf("channels=%v want none", cfg.Channels)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeTempConfig(t, `
i2c:
  bus: /dev/i2c-3
pca9685:
  address: 0x41
  frequency_hz: 50
  wire_delay: 0s
output_enable:
  enable: true
  gpio_pin: 17
channels:
  - channel: 0
    duty: 2048
  - channel: 15
    duty: 4095
    invert: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.I2C.Bus != "/dev/i2c-3" {
		t.Fatalf("bus=%q", cfg.I2C.Bus)
	}
	if cfg.PCA9685.Address != 0x41 {
		t.Fatalf("address=0x%X want 0x41", cfg.PCA9685.Address)
	}
	if cfg.PCA9685.FrequencyHz != 50 {
		t.Fatalf("frequency_hz=%v want 50", cfg.PCA9685.FrequencyHz)
	}
	if cfg.PCA9685.WireDelay != 0 {
		t.Fatalf("wire_delay=%s want 0 (explicitly disabled)", cfg.PCA9685.WireDelay)
	}
	if !cfg.OutputEnable.Enable || cfg.OutputEnable.GPIOPin != 17 {
		t.Fatalf("output_enable=%+v", cfg.OutputEnable)
	}
	want := []ChannelConfig{
		{Channel: 0, Duty: 2048},
		{Channel: 15, Duty: 4095, Invert: true},
	}
	if len(cfg.Channels) != len(want) {
		t.Fatalf("channels=%+v want %+v", cfg.Channels, want)
	}
	for i := range want {
		if cfg.Channels[i] != want[i] {
			t.Fatalf("channels[%d]=%+v want %+v", i, cfg.Channels[i], want[i])
		}
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "AddressTooLarge",
			yaml: "pca9685:\n  address: 0x80\n",
			want: "pca9685.address must be between 0x01 and 0x7f",
		},
		{
			name: "FrequencyTooLow",
			yaml: "pca9685:\n  frequency_hz: 10\n",
			want: "pca9685.frequency_hz 10 is outside the chip's range",
		},
		{
			name: "FrequencyTooHigh",
			yaml: "pca9685:\n  frequency_hz: 5000\n",
			want: "pca9685.frequency_hz 5000 is outside the chip's range",
		},
		{
			name: "NegativeWireDelay",
			yaml: "pca9685:\n  wire_delay: -1ms\n",
			want: "pca9685.wire_delay must be >= 0",
		},
		{
			name: "OutputEnableRequiresPin",
			yaml: "output_enable:\n  enable: true\n",
			want: "output_enable.gpio_pin is required when output_enable.enable is true",
		},
		{
			name: "ChannelOutOfRange",
			yaml: "channels:\n  - channel: 16\n    duty: 1\n",
			want: "channels[0].channel must be between 0 and 15",
		},
		{
			name: "DutyOutOfRange",
			yaml: "channels:\n  - channel: 1\n    duty: 4096\n",
			want: "channels[0].duty must be between 0 and 4095",
		},
		{
			name: "DuplicateChannel",
			yaml: "channels:\n  - channel: 3\n  - channel: 3\n",
			want: "channels[1].channel 3 is listed more than once",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempConfig(t, tc.yaml)
			_, err := Load(path)
			requireErrEq(t, err, tc.want)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "pca9685: [\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected yaml error")
	}
}

//go:build !linux

package i2c

import "fmt"

type Bus struct {
	path string
}

func NewBus(path string) *Bus { return &Bus{path: path} }

func (b *Bus) Open() error  { return fmt.Errorf("i2c: unsupported OS (need linux)") }
func (b *Bus) Path() string { return b.path }
func (b *Bus) Close() error { return nil }

func (b *Bus) Write(addr uint16, p []byte) error        { return fmt.Errorf("i2c: unsupported OS") }
func (b *Bus) Read(addr uint16, p []byte) error         { return fmt.Errorf("i2c: unsupported OS") }
func (b *Bus) WriteRead(addr uint16, w, r []byte) error { return fmt.Errorf("i2c: unsupported OS") }

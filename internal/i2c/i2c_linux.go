//go:build linux

package i2c

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux I2C transport backed by /dev/i2c-*.
//
// Every Write and Read is a single I2C_RDWR ioctl, i.e. one start/stop
// framed transaction on the wire. WriteRead issues both messages in one
// ioctl (repeated start) for callers that want it.

const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an I2C adapter such as /dev/i2c-1.
//
// The device file is not opened until Open is called. Transfers are
// serialized with a mutex so several chip drivers may share one Bus.
type Bus struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

func NewBus(path string) *Bus {
	return &Bus{path: filepath.Clean(path)}
}

// Open opens the adapter. Calling Open on an already open Bus is a no-op.
func (b *Bus) Open() error {
	if b == nil {
		return errors.New("i2c bus is nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f != nil {
		return nil
	}
	f, err := os.OpenFile(b.path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	b.f = f
	return nil
}

func (b *Bus) Path() string {
	if b == nil {
		return ""
	}
	return b.path
}

func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return nil
	}
	err := b.f.Close()
	b.f = nil
	return err
}

// Write sends p to the device at addr in one transaction.
func (b *Bus) Write(addr uint16, p []byte) error {
	_, err := b.tx(addr, p, nil)
	return err
}

// Read fills p from the device at addr in one transaction.
func (b *Bus) Read(addr uint16, p []byte) error {
	_, err := b.tx(addr, nil, p)
	return err
}

func (b *Bus) WriteRead(addr uint16, w, r []byte) error {
	_, err := b.tx(addr, w, r)
	return err
}

func (b *Bus) tx(addr uint16, w, r []byte) (int, error) {
	if b == nil {
		return 0, errors.New("i2c bus is nil")
	}
	if addr == 0 || addr > 0x7F {
		return 0, fmt.Errorf("invalid i2c addr 0x%X", addr)
	}

	msgs := make([]msg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, msg{addr: addr, flags: 0, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, msg{addr: addr, flags: i2cMrd, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.f == nil {
		return 0, fmt.Errorf("i2c bus %s not open", b.path)
	}

	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, b.f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return 0, errno
	}
	if len(r) > 0 {
		return len(r), nil
	}
	return len(w), nil
}

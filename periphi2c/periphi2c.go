// Package periphi2c runs the drivers in this repository on a host with a kernel I2C driver, by adapting a periph.io
// bus to drivers.I2C.
package periphi2c

import (
	"io"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// Bus implements drivers.I2C. Transactions are serialized, so a block read or write issued by one goroutine is never
// interleaved with another goroutine's transaction. Read-modify-write sequences made of several transactions are
// not protected; callers sharing a device must serialize those themselves.
type Bus struct {
	mu     sync.Mutex
	bus    i2c.Bus
	closer io.Closer
}

// New wraps an already open bus. Closing the returned Bus does not close it.
func New(bus i2c.Bus) *Bus {
	return &Bus{bus: bus}
}

// Open loads the host drivers and opens an I2C bus by name, such as "1" or "/dev/i2c-1". An empty name opens the
// first bus found.
func Open(name string) (*Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, err
	}
	return &Bus{bus: bc, closer: bc}, nil
}

func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func (b *Bus) String() string {
	return b.bus.String()
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bus.Tx(addr, w, r)
}

func (b *Bus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *Bus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, len(buf)+1)
	w[0] = reg
	copy(w[1:], buf)
	return b.Tx(uint16(addr), w, nil)
}

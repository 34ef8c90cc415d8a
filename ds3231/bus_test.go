package ds3231

import (
	"errors"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

// fakeBus is a DS3231 register file.
type fakeBus struct {
	regs   [0x13]byte
	writes []regWrite

	// convReads is how many reads of the control register CONV survives once set; negative keeps it set
	convReads int

	// beforeWrite, if set, runs before every register write lands, standing in for the chip changing state
	// between the driver's read and its write
	beforeWrite func(reg uint8)
}

// clearOnly are the status flags a write can clear but not set. BSY is read only.
const clearOnly = A1F | A2F | OSF

type regWrite struct {
	reg  uint8
	data []byte
}

// writesEqual is qt.DeepEquals for regWrite, whose fields are unexported.
var writesEqual = qt.CmpEquals(cmp.AllowUnexported(regWrite{}))

var errNoDevice = errors.New("no device at address")

func (b *fakeBus) ReadRegister(addr uint8, r uint8, buf []byte) error {
	if addr != Address {
		return errNoDevice
	}
	if r == Control && b.regs[Control]&CONV != 0 && b.convReads >= 0 {
		if b.convReads == 0 {
			b.regs[Control] &^= CONV
		}
		b.convReads--
	}
	copy(buf, b.regs[r:])
	return nil
}

func (b *fakeBus) WriteRegister(addr uint8, r uint8, buf []byte) error {
	if addr != Address {
		return errNoDevice
	}
	b.writes = append(b.writes, regWrite{reg: r, data: append([]byte(nil), buf...)})
	if b.beforeWrite != nil {
		b.beforeWrite(r)
	}
	status := b.regs[Status]
	copy(b.regs[r:], buf)
	if w := b.regs[Status]; w != status {
		b.regs[Status] = w&^(clearOnly|BSY) | status&w&clearOnly | status&BSY
	}
	return nil
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	if len(w) == 0 {
		return errors.New("no register address")
	}
	if len(w) > 1 {
		return b.WriteRegister(uint8(addr), w[0], w[1:])
	}
	return b.ReadRegister(uint8(addr), w[0], r)
}

// setTime stores a time block the way the chip would hold it after a plain 24-hour write.
func (b *fakeBus) setTime(sec, min, hour, dow, day, month, year uint8) {
	m := decToBcd(month)
	if year > 99 {
		m |= centuryBit
	}
	copy(b.regs[Time:], []byte{decToBcd(sec), decToBcd(min), decToBcd(hour), dow, decToBcd(day), m, decToBcd(year % 100)})
}

// failBus fails every transaction.
type failBus struct {
	err error
}

func (b failBus) ReadRegister(uint8, uint8, []byte) error  { return b.err }
func (b failBus) WriteRegister(uint8, uint8, []byte) error { return b.err }
func (b failBus) Tx(uint16, []byte, []byte) error          { return b.err }

func newTestDevice() (*Device, *fakeBus) {
	bus := &fakeBus{}
	d := New(bus)
	d.sleep = func(time.Duration) {}
	return d, bus
}

package ds3231

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestTemperature(t *testing.T) {
	tests := []struct {
		msb, lsb uint8
		quarters int16
		celsius  float32
	}{
		{0x19, 0x40, 101, 25.25},
		{0x00, 0x00, 0, 0},
		{0x00, 0xC0, 3, 0.75},
		{0xFF, 0x40, -3, -0.75},
		{0xE7, 0x00, -100, -25},
		{0x7F, 0xC0, 511, 127.75},
	}
	for _, test := range tests {
		c := qt.New(t)
		d, bus := newTestDevice()
		bus.regs[TempMSB] = test.msb
		bus.regs[TempLSB] = test.lsb

		q, err := d.TemperatureQuarters(false)
		c.Assert(err, qt.IsNil)
		c.Assert(q, qt.Equals, test.quarters)
		f, err := d.Temperature(false)
		c.Assert(err, qt.IsNil)
		c.Assert(f, qt.Equals, test.celsius)
		c.Assert(bus.writes, qt.HasLen, 0)
	}
}

func TestTemperatureForced(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice()
	var sleeps []time.Duration
	d.sleep = func(dt time.Duration) {
		sleeps = append(sleeps, dt)
	}
	bus.regs[Control] = INTCN
	bus.regs[TempMSB] = 0x15
	bus.convReads = 2

	f, err := d.Temperature(true)
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, float32(21))
	c.Assert(bus.writes, writesEqual, []regWrite{{reg: Control, data: []byte{INTCN | CONV}}})
	c.Assert(bus.regs[Control], qt.Equals, uint8(INTCN))
	c.Assert(sleeps, qt.DeepEquals, []time.Duration{conversionPollInterval, conversionPollInterval})
}

func TestTemperatureForcedWhileBusy(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice()
	bus.regs[Status] = BSY
	bus.regs[TempMSB] = 0x15
	bus.convReads = -1

	_, err := d.Temperature(true)
	c.Assert(err, qt.IsNil)
	c.Assert(bus.writes, qt.HasLen, 0)
}

func TestTemperatureForcedTimeout(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice()
	polls := 0
	d.sleep = func(time.Duration) {
		polls++
	}
	bus.regs[TempMSB] = 0x15
	bus.regs[TempLSB] = 0x80
	bus.convReads = -1

	// a conversion that never finishes gives the stale reading, not an error
	f, err := d.Temperature(true)
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, float32(21.5))
	c.Assert(polls, qt.Equals, conversionPolls)
	c.Assert(bus.regs[Control]&CONV, qt.Equals, uint8(CONV))
}

func TestAgingOffset(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice()

	c.Assert(d.SetAgingOffset(-12), qt.IsNil)
	c.Assert(bus.regs[Aging], qt.Equals, uint8(0xF4))
	got, err := d.AgingOffset()
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, int8(-12))
}

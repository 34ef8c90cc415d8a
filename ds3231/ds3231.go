// Package ds3231 implements a driver for the DS3231 Real-Time Clock (RTC), keeping UTC as Unix time from 2000 through
// 2199. Besides the time it covers the two alarms, the square wave and 32kHz outputs, the oscillator, the crystal
// aging offset and the temperature sensor.
//
// The chip only has a two-digit year and a century bit, and it considers 2100 a leap year. The driver corrects that
// the first time it reads a date past 2100-02-28; see Unix.
//
// The driver does no locking. A Device must not be used from several goroutines at once, and a bus shared with other
// drivers must serialize its transactions (the periphi2c adapter does).
//
// Datasheet: https://datasheets.maximintegrated.com/en/ds/DS3231.pdf
package ds3231

import (
	"errors"
	"time"

	"github.com/ajanata/drivers"
)

var (
	ErrBeforeY2000      = errors.New("ds3231: cannot represent pre-2000 time")
	ErrAfterY2199       = errors.New("ds3231: cannot represent post-2199 time")
	ErrInvalidFrequency = errors.New("ds3231: unsupported square wave frequency")
	ErrInvalidAlarm     = errors.New("ds3231: no such alarm")
)

type Device struct {
	bus     drivers.I2C
	Address uint8

	// OnCorrection, if set, is called with the corrected time after a read applied the Y2100 correction.
	OnCorrection func(Civil)

	sleep func(time.Duration)
}

type Config struct {
	Address uint8
}

// New creates a new driver on the specified preconfigured I2C bus. It does not touch the device.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:     bus,
		Address: Address,
		sleep:   time.Sleep,
	}
}

func (d *Device) Configure(c Config) {
	if c.Address == 0 {
		c.Address = Address
	}
	d.Address = c.Address
}

// Unix reads the current time as seconds since the Unix epoch.
//
// If the chip has stepped onto 2100-02-29, or any later date without having been corrected, the stored date is
// moved one day forward and written back with the correction marker before the time is returned.
func (d *Device) Unix() (uint64, error) {
	c, err := d.readCivil()
	if err != nil {
		return 0, err
	}
	return UnixFromCivil(c), nil
}

// Now reads the current time in UTC.
func (d *Device) Now() (time.Time, error) {
	t, err := d.Unix()
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(t), 0).UTC(), nil
}

// SetUnix sets the time. t must lie in [MinUnix, MaxUnix); nothing is written otherwise. Setting the time also
// clears the oscillator stop flag and makes sure the oscillator runs on battery.
func (d *Device) SetUnix(t uint64) error {
	if err := checkRange(t); err != nil {
		return err
	}
	if err := d.writeCivil(CivilFromUnix(t)); err != nil {
		return err
	}
	if err := d.AssumeTimeValid(); err != nil {
		return err
	}
	return d.EnableOscillator(true)
}

// Set sets the time, truncated to the second.
func (d *Device) Set(t time.Time) error {
	s := t.Unix()
	if s < 0 {
		return ErrBeforeY2000
	}
	return d.SetUnix(uint64(s))
}

// TimeValid reports whether the oscillator has run without stopping since the time was last set.
func (d *Device) TimeValid() (bool, error) {
	stopped, err := d.bitSet(Status, OSF)
	if err != nil {
		return false, err
	}
	return !stopped, nil
}

// AssumeTimeValid clears the oscillator stop flag.
func (d *Device) AssumeTimeValid() error {
	return d.updateBits(Status, OSF, false)
}

func (d *Device) readCivil() (Civil, error) {
	buf := [7]byte{}
	err := d.bus.ReadRegister(d.Address, Time, buf[:])
	if err != nil {
		return Civil{}, err
	}
	c, fix := correctTime(decodeTime(buf))
	if fix {
		err = d.writeCivil(c)
		if err != nil {
			return Civil{}, err
		}
		if d.OnCorrection != nil {
			d.OnCorrection(c)
		}
	}
	return c, nil
}

func (d *Device) writeCivil(c Civil) error {
	buf := encodeTime(c)
	return d.bus.WriteRegister(d.Address, Time, buf[:])
}

func (d *Device) readByte(reg uint8) (uint8, error) {
	buf := [1]byte{}
	err := d.bus.ReadRegister(d.Address, reg, buf[:])
	return buf[0], err
}

func (d *Device) writeByte(reg, v uint8) error {
	buf := [1]byte{v}
	return d.bus.WriteRegister(d.Address, reg, buf[:])
}

func (d *Device) bitSet(reg, mask uint8) (bool, error) {
	v, err := d.readByte(reg)
	if err != nil {
		return false, err
	}
	return v&mask != 0, nil
}

// update replaces the bits under mask in reg with value. The register is only written if that changes it.
func (d *Device) update(reg, mask, value uint8) error {
	old, err := d.readByte(reg)
	if err != nil {
		return err
	}
	v := old&^mask | value&mask
	if v == old {
		return nil
	}
	if reg == Status {
		// A1F and A2F ignore ones, so only the flags being cleared are written as zero. A flag that tripped after
		// the read stays set.
		v |= (A1F | A2F) &^ mask
	}
	return d.writeByte(reg, v)
}

func (d *Device) updateBits(reg, mask uint8, set bool) error {
	if set {
		return d.update(reg, mask, mask)
	}
	return d.update(reg, mask, 0)
}

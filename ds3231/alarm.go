package ds3231

// Alarm selects one of the two alarms. Alarm 1 has a resolution of one second, alarm 2 of one minute.
type Alarm uint8

const (
	Alarm1 Alarm = 1
	Alarm2 Alarm = 2
)

func (a Alarm) valid() bool {
	return a == Alarm1 || a == Alarm2
}

func (a Alarm) register() uint8 {
	if a == Alarm1 {
		return Alarm1Seconds
	}
	return Alarm2Minutes
}

func (a Alarm) size() int {
	if a == Alarm1 {
		return 4
	}
	return 3
}

// flag is the status bit set when the alarm trips.
func (a Alarm) flag() uint8 {
	if a == Alarm1 {
		return A1F
	}
	return A2F
}

// interrupt is the control bit enabling the alarm's interrupt.
func (a Alarm) interrupt() uint8 {
	if a == Alarm1 {
		return A1IE
	}
	return A2IE
}

// AlarmTime returns the next time the alarm will trip.
//
// The chip stores only the day of month and the time of day, so the alarm is placed in the current month, or in the
// next one if that moment has already passed. The alarm registers are assumed to have been written by SetAlarmTime.
func (d *Device) AlarmTime(a Alarm) (uint64, error) {
	if !a.valid() {
		return 0, ErrInvalidAlarm
	}
	buf := make([]byte, a.size())
	err := d.bus.ReadRegister(d.Address, a.register(), buf)
	if err != nil {
		return 0, err
	}
	now, err := d.readCivil()
	if err != nil {
		return 0, err
	}

	alarm := decodeAlarm(a, buf)
	c := Civil{
		Second: alarm.second,
		Minute: alarm.minute,
		Hour:   alarm.hour.hour(),
		Day:    alarm.day,
		Month:  now.Month,
		Year:   now.Year,
	}
	t := UnixFromCivil(c)
	if t < UnixFromCivil(now) {
		c.Month++
		if c.Month > 12 {
			c.Month = 1
			c.Year++
		}
		t = UnixFromCivil(c)
	}
	return t, nil
}

// SetAlarmTime sets the alarm to trip when day of month, hour, minute and (alarm 1 only) second match t. Alarm 2
// drops the seconds. It does not enable the alarm interrupt.
func (d *Device) SetAlarmTime(a Alarm, t uint64) error {
	if !a.valid() {
		return ErrInvalidAlarm
	}
	if err := checkRange(t); err != nil {
		return err
	}
	return d.bus.WriteRegister(d.Address, a.register(), encodeAlarm(a, CivilFromUnix(t)))
}

// AlarmTripped reports whether the alarm flag is set, clearing it afterwards if clear is true.
func (d *Device) AlarmTripped(a Alarm, clear bool) (bool, error) {
	if !a.valid() {
		return false, ErrInvalidAlarm
	}
	tripped, err := d.bitSet(Status, a.flag())
	if err != nil || !tripped || !clear {
		return tripped, err
	}
	return true, d.updateBits(Status, a.flag(), false)
}

func (d *Device) ClearAlarm(a Alarm) error {
	_, err := d.AlarmTripped(a, true)
	return err
}

func (d *Device) AlarmInterruptEnabled(a Alarm) (bool, error) {
	if !a.valid() {
		return false, ErrInvalidAlarm
	}
	return d.bitSet(Control, a.interrupt())
}

// EnableAlarmInterrupt sets whether the alarm pulls INT/SQW low when it trips. The pin only carries interrupts while
// the square wave is disabled.
func (d *Device) EnableAlarmInterrupt(a Alarm, enable bool) error {
	if !a.valid() {
		return ErrInvalidAlarm
	}
	return d.updateBits(Control, a.interrupt(), enable)
}

func (d *Device) DisableAlarmInterrupt(a Alarm) error {
	return d.EnableAlarmInterrupt(a, false)
}

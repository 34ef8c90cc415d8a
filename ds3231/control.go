package ds3231

// Frequency is a square wave output frequency in Hz.
type Frequency uint16

const (
	SQW1Hz    Frequency = 1
	SQW1024Hz Frequency = 1024
	SQW4096Hz Frequency = 4096
	SQW8192Hz Frequency = 8192
)

// rate select values, in RS2:RS1 order
var frequencies = [4]Frequency{SQW1Hz, SQW1024Hz, SQW4096Hz, SQW8192Hz}

// OscillatorEnabled reports whether the oscillator keeps running on battery power.
func (d *Device) OscillatorEnabled() (bool, error) {
	stopped, err := d.bitSet(Control, EOSC)
	if err != nil {
		return false, err
	}
	return !stopped, nil
}

// EnableOscillator starts or stops the oscillator for when the chip runs on battery. It always runs on Vcc.
func (d *Device) EnableOscillator(enable bool) error {
	return d.updateBits(Control, EOSC, !enable)
}

func (d *Device) DisableOscillator() error {
	return d.EnableOscillator(false)
}

func (d *Device) Output32kHzEnabled() (bool, error) {
	return d.bitSet(Status, EN32kHz)
}

func (d *Device) Enable32kHzOutput(enable bool) error {
	return d.updateBits(Status, EN32kHz, enable)
}

func (d *Device) Disable32kHzOutput() error {
	return d.Enable32kHzOutput(false)
}

// BatteryBackedSQWEnabled reports whether the square wave keeps going on battery power.
func (d *Device) BatteryBackedSQWEnabled() (bool, error) {
	return d.bitSet(Control, BBSQW)
}

func (d *Device) EnableBatteryBackedSQW(enable bool) error {
	return d.updateBits(Control, BBSQW, enable)
}

func (d *Device) DisableBatteryBackedSQW() error {
	return d.EnableBatteryBackedSQW(false)
}

// SQWEnabled reports whether the INT/SQW pin outputs the square wave (true) or the alarm interrupts (false).
func (d *Device) SQWEnabled() (bool, error) {
	intcn, err := d.bitSet(Control, INTCN)
	if err != nil {
		return false, err
	}
	return !intcn, nil
}

func (d *Device) EnableSQW(enable bool) error {
	return d.updateBits(Control, INTCN, !enable)
}

func (d *Device) DisableSQW() error {
	return d.EnableSQW(false)
}

// SQWFrequency returns the selected square wave frequency.
func (d *Device) SQWFrequency() (Frequency, error) {
	v, err := d.readByte(Control)
	if err != nil {
		return 0, err
	}
	return frequencies[(v&(RS1|RS2))>>3], nil
}

// SetSQWFrequency selects the square wave frequency. Anything but the four Frequency constants is rejected without
// touching the chip.
func (d *Device) SetSQWFrequency(f Frequency) error {
	for i, v := range frequencies {
		if v == f {
			return d.update(Control, RS1|RS2, uint8(i)<<3)
		}
	}
	return ErrInvalidFrequency
}

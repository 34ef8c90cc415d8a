package ds3231

import "time"

const (
	conversionPolls        = 30
	conversionPollInterval = 10 * time.Millisecond
)

// Temperature returns the die temperature in degrees Celsius, with a resolution of 0.25°C.
//
// The chip converts every 64 seconds on its own. With force set a conversion is started first, unless one is already
// running, and waited for. If it has not finished after 30 polls the previous reading is returned.
func (d *Device) Temperature(force bool) (float32, error) {
	q, err := d.TemperatureQuarters(force)
	return float32(q) / 4, err
}

// TemperatureQuarters returns the die temperature in quarters of a degree Celsius. See Temperature.
func (d *Device) TemperatureQuarters(force bool) (int16, error) {
	if force {
		err := d.convert()
		if err != nil {
			return 0, err
		}
	}
	buf := [2]byte{}
	err := d.bus.ReadRegister(d.Address, TempMSB, buf[:])
	if err != nil {
		return 0, err
	}
	return int16(int8(buf[0]))*4 + int16(buf[1]>>6), nil
}

func (d *Device) convert() error {
	status, err := d.readByte(Status)
	if err != nil {
		return err
	}
	control, err := d.readByte(Control)
	if err != nil {
		return err
	}
	if status&BSY == 0 && control&CONV == 0 {
		err = d.writeByte(Control, control|CONV)
		if err != nil {
			return err
		}
	}
	for i := 0; i < conversionPolls; i++ {
		busy, err := d.bitSet(Control, CONV)
		if err != nil {
			return err
		}
		if !busy {
			return nil
		}
		d.sleep(conversionPollInterval)
	}
	// gave up, the last finished conversion is still in the registers
	return nil
}

// AgingOffset returns the crystal aging offset. Each step adjusts the oscillator by about 0.1ppm, positive values
// slow it down.
func (d *Device) AgingOffset() (int8, error) {
	v, err := d.readByte(Aging)
	return int8(v), err
}

func (d *Device) SetAgingOffset(offset int8) error {
	return d.writeByte(Aging, uint8(offset))
}

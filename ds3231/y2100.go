package ds3231

// The DS3231 treats every year ending in 00 as a leap year, so on its own it steps from 2100-02-28 to 2100-02-29.
// The first read that finds such a date moves the chip one day forward and marks the hour register so the fix is
// applied once. The only spare bit that survives in the hour register is the 12/24-hour select, so from then on
// the hour is stored in 12-hour form with the PM bit carrying the afternoon.

// hourEncoding is the content of an hour register, either plainHour or markedHour.
type hourEncoding interface {
	hour() uint8
	register() uint8
}

// plainHour is a BCD 0-23 hour with the marker clear.
type plainHour uint8

// markedHour is the 12-hour form written once the Y2100 correction has been applied.
type markedHour struct {
	hour12 uint8 // 1-12
	pm     bool
}

func (h plainHour) hour() uint8 {
	return uint8(h)
}

func (h plainHour) register() uint8 {
	return decToBcd(uint8(h))
}

func (h markedHour) hour() uint8 {
	hour := h.hour12
	if hour > 11 {
		hour = 0
	}
	if h.pm {
		hour += 12
	}
	return hour
}

func (h markedHour) register() uint8 {
	b := decToBcd(h.hour12) | hourMarker
	if h.pm {
		b |= hourPM
	}
	return b
}

// encodeHour picks the hour form for a 0-23 hour.
func encodeHour(hour uint8, marked bool) hourEncoding {
	if !marked {
		return plainHour(hour)
	}
	h := markedHour{hour12: hour, pm: hour > 11}
	if h.pm {
		h.hour12 -= 12
	}
	if h.hour12 == 0 {
		h.hour12 = 12
	}
	return h
}

// decodeHour reads an hour register, ignoring the alarm mask bit.
func decodeHour(b uint8) hourEncoding {
	if b&hourMarker == 0 {
		return plainHour(bcdToDec(b & 0x3F))
	}
	return markedHour{hour12: bcdToDec(b & 0x1F), pm: b&hourPM != 0}
}

// afterY2100Bug reports whether a date is 2100-02-29 or later, year being counted from 2000.
func afterY2100Bug(day, month, year uint8) bool {
	if year > 100 {
		return true
	}
	return year == 100 && (month > 2 || (month == 2 && day == 29))
}

// advanceDay moves c forward by one day.
//
// Leap years are every fourth year here. That is wrong for 2100, but the only date it is ever applied to in 2100 is
// the chip's bogus February 29th, whose successor is March 1st either way.
func advanceDay(c Civil) Civil {
	if c.Month < 1 || c.Month > 12 {
		// garbage from a chip that was never set
		return c
	}
	days := monthDays
	if c.Year%4 == 0 {
		days[1] = 29
	}
	c.Day++
	if c.Day > days[c.Month-1] {
		c.Day = 1
		c.Month++
		if c.Month > 12 {
			c.Month = 1
			c.Year++
		}
	}
	c.Weekday++
	if c.Weekday >= 7 {
		c.Weekday = 0
	}
	return c
}

// correctTime returns the calendar time held in r and whether the chip needs the corrected time written back.
func correctTime(r rawTime) (Civil, bool) {
	c := r.civil()
	if afterY2100Bug(c.Day, c.Month, c.Year) && !r.corrected() {
		return advanceDay(c), true
	}
	return c, false
}

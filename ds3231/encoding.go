package ds3231

// rawTime is the time block as stored on the chip, with BCD already undone.
type rawTime struct {
	second  uint8
	minute  uint8
	hour    hourEncoding
	weekday uint8 // 0-6
	day     uint8
	month   uint8
	year    uint8 // 0-199, century bit folded in
}

func decodeTime(buf [7]byte) rawTime {
	// the register counts 1-7; an unset register reads 0 and lands on Saturday
	r := rawTime{
		second:  bcdToDec(buf[0] & 0x7F),
		minute:  bcdToDec(buf[1] & 0x7F),
		hour:    decodeHour(buf[2] & 0x7F),
		weekday: (buf[3]&0x07 + 6) % 7,
		day:     bcdToDec(buf[4] & 0x3F),
		month:   bcdToDec(buf[5] & 0x1F),
		year:    bcdToDec(buf[6]),
	}
	if buf[5]&centuryBit != 0 {
		r.year += 100
	}
	return r
}

func (r rawTime) civil() Civil {
	return Civil{
		Second:  r.second,
		Minute:  r.minute,
		Hour:    r.hour.hour(),
		Weekday: r.weekday,
		Day:     r.day,
		Month:   r.month,
		Year:    r.year,
	}
}

// corrected reports whether the Y2100 marker is set.
func (r rawTime) corrected() bool {
	_, ok := r.hour.(markedHour)
	return ok
}

// encodeTime lays out c for the time block. Dates past the Y2100 bug are written with the marker set.
func encodeTime(c Civil) [7]byte {
	month := decToBcd(c.Month)
	if c.Year > 99 {
		month |= centuryBit
	}
	return [7]byte{
		decToBcd(c.Second),
		decToBcd(c.Minute),
		encodeHour(c.Hour, afterY2100Bug(c.Day, c.Month, c.Year)).register(),
		c.Weekday + 1,
		decToBcd(c.Day),
		month,
		decToBcd(c.Year % 100),
	}
}

// rawAlarm holds the fields an alarm stores. Alarms carry no month or year.
type rawAlarm struct {
	second uint8
	minute uint8
	hour   hourEncoding
	day    uint8
}

// decodeAlarm reads an alarm block written by encodeAlarm. Mask bits and the day-of-week select are ignored.
func decodeAlarm(a Alarm, buf []byte) rawAlarm {
	var r rawAlarm
	if a == Alarm1 {
		r.second = bcdToDec(buf[0] &^ alarmMask)
		buf = buf[1:]
	}
	r.minute = bcdToDec(buf[0] &^ alarmMask)
	r.hour = decodeHour(buf[1] &^ alarmMask)
	r.day = bcdToDec(buf[2] & 0x3F)
	return r
}

// encodeAlarm lays out an alarm block matching on day of month, hour, minute and, for alarm 1, second. The hour uses
// the same form the time block will be in on that date, or the chip would never match it.
func encodeAlarm(a Alarm, c Civil) []byte {
	buf := []byte{
		decToBcd(c.Minute),
		encodeHour(c.Hour, afterY2100Bug(c.Day, c.Month, c.Year)).register(),
		decToBcd(c.Day),
	}
	if a == Alarm1 {
		buf = append([]byte{decToBcd(c.Second)}, buf...)
	}
	return buf
}

package ds3231

// Civil is a UTC calendar time in the form the chip counts it.
type Civil struct {
	Second  uint8
	Minute  uint8
	Hour    uint8 // 0-23
	Weekday uint8 // 0-6, Sunday is 0
	Day     uint8 // 1-31
	Month   uint8 // 1-12
	Year    uint8 // years since 2000, 0-199
}

// The range of Unix times the chip can hold: 2000-01-01T00:00:00Z up to, not including, 2200-01-01T00:00:00Z.
const (
	MinUnix uint64 = 946684800
	MaxUnix uint64 = 7258118400
)

var monthDays = [12]uint8{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// UnixFromCivil converts c to seconds since the Unix epoch. Weekday is ignored.
//
// Years are counted from March so that a leap day is always the last day of a counting year, which keeps February
// out of the leap rule. The result is exact for every date from 2000 through 2199.
func UnixFromCivil(c Civil) uint64 {
	var my uint64
	if c.Month >= 3 {
		my = 1
	}
	// years since 1970, shifted by one from March on
	y := uint64(c.Year) + 30 + my
	var dm uint64
	// months past 12 only come from a garbled register
	for i := 0; i < int(c.Month)-1 && i < len(monthDays); i++ {
		dm += uint64(monthDays[i])
	}
	days := uint64(c.Day) - 1 + dm + (y+1)/4 - (y+69)/100 + (y+369)/400 + 365*(y-my)
	return ((days*24+uint64(c.Hour))*60+uint64(c.Minute))*60 + uint64(c.Second)
}

// CivilFromUnix converts seconds since the Unix epoch to calendar fields. t must be at least MinUnix and below MaxUnix;
// other values produce a meaningless Year.
func CivilFromUnix(t uint64) Civil {
	var c Civil
	c.Second = uint8(t % 60)
	t /= 60
	c.Minute = uint8(t % 60)
	t /= 60
	c.Hour = uint8(t % 24)
	t /= 24
	// 1970-01-01 was a Thursday
	c.Weekday = uint8((t + 4) % 7)

	// days since 0000-03-01 in 400-year eras
	z := t + 719468
	era := z / 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	c.Day = uint8(doy - (153*mp+2)/5 + 1)
	if mp < 10 {
		c.Month = uint8(mp + 3)
	} else {
		c.Month = uint8(mp - 9)
		y++
	}
	c.Year = uint8(y - 2000)
	return c
}

func checkRange(t uint64) error {
	if t < MinUnix {
		return ErrBeforeY2000
	}
	if t >= MaxUnix {
		return ErrAfterY2199
	}
	return nil
}

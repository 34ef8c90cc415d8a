package ds3231

const (
	Address       = 0x68 // I2C address for DS3231
	Time          = 0x00 // Time registers starting with seconds
	Alarm1Seconds = 0x07 // Alarm 1 registers starting with seconds
	Alarm2Minutes = 0x0B // Alarm 2 registers starting with minutes
	Control       = 0x0E // Control register
	Status        = 0x0F // Control and status register
	Aging         = 0x10 // Aging offset register, signed
	TempMSB       = 0x11 // Temperature, integer part, signed
	TempLSB       = 0x12 // Temperature, fractional part in bits 7-6
)

// Control register bits
const (
	A1IE  = 1 << 0 // alarm 1 interrupt enable
	A2IE  = 1 << 1 // alarm 2 interrupt enable
	INTCN = 1 << 2 // interrupt control, square wave when clear
	RS1   = 1 << 3 // square wave rate select
	RS2   = 1 << 4
	CONV  = 1 << 5 // force temperature conversion
	BBSQW = 1 << 6 // battery-backed square wave enable
	EOSC  = 1 << 7 // oscillator stopped on battery when set
)

// Status register bits
const (
	A1F     = 1 << 0 // alarm 1 flag
	A2F     = 1 << 1 // alarm 2 flag
	BSY     = 1 << 2 // busy running a TCXO function
	EN32kHz = 1 << 3 // 32kHz output enable
	OSF     = 1 << 7 // oscillator stop flag
)

const (
	hourMarker = 1 << 6 // 12-hour mode on the chip, used here as the Y2100 correction marker
	hourPM     = 1 << 5
	centuryBit = 1 << 7 // month register
	alarmMask  = 1 << 7 // AxMy bit on each alarm register
)

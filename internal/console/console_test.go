package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/drivers/ds3231"
)

// regBus is a bare DS3231 register file.
type regBus struct {
	regs [0x13]byte
}

func (b *regBus) ReadRegister(addr uint8, r uint8, buf []byte) error {
	copy(buf, b.regs[r:])
	return nil
}

func (b *regBus) WriteRegister(addr uint8, r uint8, buf []byte) error {
	status := b.regs[ds3231.Status]
	copy(b.regs[r:], buf)
	// the alarm and oscillator stop flags can only be cleared
	const flags = ds3231.A1F | ds3231.A2F | ds3231.OSF
	w := b.regs[ds3231.Status]
	b.regs[ds3231.Status] = w&^flags | status&w&flags
	return nil
}

func (b *regBus) Tx(addr uint16, w, r []byte) error {
	return nil
}

func newTestConsole() (*Console, *regBus, *bytes.Buffer) {
	bus := &regBus{}
	out := &bytes.Buffer{}
	c := New(ds3231.New(bus), &sync.Mutex{}, out)
	c.Now = func() time.Time {
		return time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	}
	return c, bus, out
}

func TestSetAndNow(t *testing.T) {
	c := qt.New(t)
	con, bus, out := newTestConsole()
	bus.regs[ds3231.Status] = ds3231.OSF

	c.Assert(con.Exec("valid"), qt.IsNil)
	c.Assert(con.Exec("set now"), qt.IsNil)
	c.Assert(con.Exec("now"), qt.IsNil)
	c.Assert(con.Exec("set 2150-01-02T03:04:05Z"), qt.IsNil)
	c.Assert(con.Exec("now"), qt.IsNil)
	c.Assert(con.Exec("valid"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, `false
set 1716206400 2024-05-20T12:00:00Z
1716206400 2024-05-20T12:00:00Z
set 5680379045 2150-01-02T03:04:05Z
5680379045 2150-01-02T03:04:05Z
true
`)
}

func TestSetRejectsRange(t *testing.T) {
	c := qt.New(t)
	con, _, _ := newTestConsole()
	c.Assert(con.Exec("set 946684799"), qt.ErrorIs, ds3231.ErrBeforeY2000)
	c.Assert(con.Exec("set 2200-01-01T00:00:00Z"), qt.ErrorIs, ds3231.ErrAfterY2199)
	c.Assert(con.Exec("set 1969-01-01T00:00:00Z"), qt.ErrorIs, ds3231.ErrBeforeY2000)
	c.Assert(con.Exec("set yesterday"), qt.ErrorMatches, `time "yesterday" is neither .*`)
}

func TestToggles(t *testing.T) {
	c := qt.New(t)
	con, bus, out := newTestConsole()
	bus.regs[ds3231.Control] = ds3231.EOSC | ds3231.INTCN

	for _, line := range []string{"osc", "osc on", "osc", "sqw", "sqw on", "sqw", "32k on", "32k", "bbsqw", "alarm-int 1 on", "alarm-int 1"} {
		c.Assert(con.Exec(line), qt.IsNil, qt.Commentf("%s", line))
	}
	c.Assert(out.String(), qt.Equals, "off\non\noff\non\non\noff\non\n")
	c.Assert(bus.regs[ds3231.Control], qt.Equals, uint8(ds3231.A1IE))
	c.Assert(bus.regs[ds3231.Status], qt.Equals, uint8(ds3231.EN32kHz))
	c.Assert(con.Exec("osc maybe"), qt.ErrorMatches, `"maybe" is neither on nor off`)
}

func TestFrequency(t *testing.T) {
	c := qt.New(t)
	con, _, out := newTestConsole()
	c.Assert(con.Exec("freq 1024"), qt.IsNil)
	c.Assert(con.Exec("freq"), qt.IsNil)
	c.Assert(con.Exec("freq 3"), qt.ErrorIs, ds3231.ErrInvalidFrequency)
	c.Assert(con.Exec("freq 4096Hz"), qt.IsNil)
	c.Assert(con.Exec("freq"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "1024Hz\n4096Hz\n")
}

func TestAlarm(t *testing.T) {
	c := qt.New(t)
	con, bus, out := newTestConsole()
	c.Assert(con.Exec("set now"), qt.IsNil)
	out.Reset()

	c.Assert(con.Exec("alarm 1 2024-05-20T08:30:00Z"), qt.IsNil)
	c.Assert(con.Exec("alarm 2 '2024-05-21T08:30:00Z'"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "alarm 1 1718872200 2024-06-20T08:30:00Z\nalarm 2 1716280200 2024-05-21T08:30:00Z\n")

	out.Reset()
	bus.regs[ds3231.Status] = ds3231.A2F
	c.Assert(con.Exec("tripped 2"), qt.IsNil)
	c.Assert(con.Exec("tripped 2 clear"), qt.IsNil)
	c.Assert(con.Exec("tripped 2"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "true\ntrue\nfalse\n")
	c.Assert(con.Exec("tripped 3"), qt.ErrorIs, ds3231.ErrInvalidAlarm)
}

func TestTemperatureAndAging(t *testing.T) {
	c := qt.New(t)
	con, bus, out := newTestConsole()
	bus.regs[ds3231.TempMSB] = 0x19
	bus.regs[ds3231.TempLSB] = 0x40
	c.Assert(con.Exec("temp"), qt.IsNil)
	c.Assert(con.Exec("aging -5"), qt.IsNil)
	c.Assert(con.Exec("aging"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "25.25\n-5\n")
	c.Assert(con.Exec("aging 200"), qt.ErrorMatches, "aging offset: .*")
}

func TestUsageAndUnknown(t *testing.T) {
	c := qt.New(t)
	con, _, out := newTestConsole()
	c.Assert(con.Exec("now please"), qt.ErrorIs, ErrUsage)
	c.Assert(con.Exec("reboot"), qt.ErrorMatches, `unknown command "reboot", try help`)
	c.Assert(con.Exec("   "), qt.IsNil)
	c.Assert(con.Exec("help"), qt.IsNil)
	c.Assert(strings.Contains(out.String(), "alarm <1|2> [unix|now|RFC3339]\n"), qt.IsTrue)
}

func TestRun(t *testing.T) {
	c := qt.New(t)
	con, _, out := newTestConsole()
	err := con.Run(strings.NewReader("set now\nbogus\nnow\n"))
	c.Assert(err, qt.IsNil)
	c.Assert(out.String(), qt.Equals, `set 1716206400 2024-05-20T12:00:00Z
error: unknown command "bogus", try help
1716206400 2024-05-20T12:00:00Z
`)
}

func TestExecArgs(t *testing.T) {
	c := qt.New(t)
	con, _, out := newTestConsole()
	c.Assert(con.ExecArgs([]string{"set", "2024-05-20T12:00:00Z"}), qt.IsNil)
	c.Assert(con.ExecArgs(nil), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "set 1716206400 2024-05-20T12:00:00Z\n")
}

// Package console is a line-oriented command interpreter over a DS3231, used by ds3231ctl.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/shlex"

	"github.com/ajanata/drivers/ds3231"
)

// Clock is the part of *ds3231.Device the console drives.
type Clock interface {
	Unix() (uint64, error)
	SetUnix(t uint64) error
	TimeValid() (bool, error)
	AssumeTimeValid() error
	Temperature(force bool) (float32, error)
	AgingOffset() (int8, error)
	SetAgingOffset(offset int8) error
	OscillatorEnabled() (bool, error)
	EnableOscillator(enable bool) error
	Output32kHzEnabled() (bool, error)
	Enable32kHzOutput(enable bool) error
	BatteryBackedSQWEnabled() (bool, error)
	EnableBatteryBackedSQW(enable bool) error
	SQWEnabled() (bool, error)
	EnableSQW(enable bool) error
	SQWFrequency() (ds3231.Frequency, error)
	SetSQWFrequency(f ds3231.Frequency) error
	AlarmTime(a ds3231.Alarm) (uint64, error)
	SetAlarmTime(a ds3231.Alarm, t uint64) error
	AlarmTripped(a ds3231.Alarm, clear bool) (bool, error)
	AlarmInterruptEnabled(a ds3231.Alarm) (bool, error)
	EnableAlarmInterrupt(a ds3231.Alarm, enable bool) error
}

var ErrUsage = errors.New("usage")

type command struct {
	usage string
	run   func(c *Console, args []string) error
}

var commands = map[string]command{
	"now":          {"now", (*Console).now},
	"set":          {"set <unix|now|RFC3339>", (*Console).set},
	"valid":        {"valid", (*Console).valid},
	"assume-valid": {"assume-valid", (*Console).assumeValid},
	"temp":         {"temp [force]", (*Console).temp},
	"aging":        {"aging [offset]", (*Console).aging},
	"osc":          {"osc [on|off]", (*Console).osc},
	"32k":          {"32k [on|off]", (*Console).out32k},
	"bbsqw":        {"bbsqw [on|off]", (*Console).bbsqw},
	"sqw":          {"sqw [on|off]", (*Console).sqw},
	"freq":         {"freq [1|1024|4096|8192]", (*Console).freq},
	"alarm":        {"alarm <1|2> [unix|now|RFC3339]", (*Console).alarm},
	"tripped":      {"tripped <1|2> [clear]", (*Console).tripped},
	"alarm-int":    {"alarm-int <1|2> [on|off]", (*Console).alarmInt},
}

// Console runs commands against a Clock. Commands hold the lock while they touch the chip, so scheduled jobs sharing
// the same lock never interleave with them.
type Console struct {
	clock Clock
	mu    sync.Locker
	out   io.Writer

	// Now is the host clock used by "set now"
	Now func() time.Time
}

func New(clock Clock, mu sync.Locker, out io.Writer) *Console {
	return &Console{
		clock: clock,
		mu:    mu,
		out:   out,
		Now:   time.Now,
	}
}

// Run executes one command per line until r is exhausted. Failing commands are reported to the output and do not
// stop the loop.
func (c *Console) Run(r io.Reader) error {
	s := bufio.NewScanner(r)
	for s.Scan() {
		if err := c.Exec(s.Text()); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return s.Err()
}

// Exec runs a single command line. Blank lines and lines starting with # do nothing.
func (c *Console) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	return c.ExecArgs(args)
}

// ExecArgs runs a command given as separate words, such as the rest of a program's arguments.
func (c *Console) ExecArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if args[0] == "help" {
		c.help()
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", args[0])
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err := cmd.run(c, args[1:])
	if errors.Is(err, ErrUsage) {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}
	return err
}

func (c *Console) help() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(c.out, commands[name].usage)
	}
}

func (c *Console) printTime(label string, t uint64) {
	fmt.Fprintf(c.out, "%s%d %s\n", label, t, time.Unix(int64(t), 0).UTC().Format(time.RFC3339))
}

func (c *Console) now(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	t, err := c.clock.Unix()
	if err != nil {
		return err
	}
	c.printTime("", t)
	return nil
}

func (c *Console) set(args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	t, err := c.parseTime(args[0])
	if err != nil {
		return err
	}
	if err := c.clock.SetUnix(t); err != nil {
		return err
	}
	c.printTime("set ", t)
	return nil
}

func (c *Console) valid(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	ok, err := c.clock.TimeValid()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, ok)
	return nil
}

func (c *Console) assumeValid(args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return c.clock.AssumeTimeValid()
}

func (c *Console) temp(args []string) error {
	force := false
	switch {
	case len(args) == 1 && args[0] == "force":
		force = true
	case len(args) != 0:
		return ErrUsage
	}
	t, err := c.clock.Temperature(force)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%.2f\n", t)
	return nil
}

func (c *Console) aging(args []string) error {
	switch len(args) {
	case 0:
		v, err := c.clock.AgingOffset()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, v)
		return nil
	case 1:
		v, err := strconv.ParseInt(args[0], 0, 8)
		if err != nil {
			return fmt.Errorf("aging offset: %w", err)
		}
		return c.clock.SetAgingOffset(int8(v))
	}
	return ErrUsage
}

func (c *Console) osc(args []string) error {
	return c.toggle(args, c.clock.OscillatorEnabled, c.clock.EnableOscillator)
}

func (c *Console) out32k(args []string) error {
	return c.toggle(args, c.clock.Output32kHzEnabled, c.clock.Enable32kHzOutput)
}

func (c *Console) bbsqw(args []string) error {
	return c.toggle(args, c.clock.BatteryBackedSQWEnabled, c.clock.EnableBatteryBackedSQW)
}

func (c *Console) sqw(args []string) error {
	return c.toggle(args, c.clock.SQWEnabled, c.clock.EnableSQW)
}

// toggle prints a flag with no arguments, or sets it from on/off.
func (c *Console) toggle(args []string, get func() (bool, error), set func(bool) error) error {
	switch len(args) {
	case 0:
		on, err := get()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, onOff(on))
		return nil
	case 1:
		on, err := parseOnOff(args[0])
		if err != nil {
			return err
		}
		return set(on)
	}
	return ErrUsage
}

func (c *Console) freq(args []string) error {
	switch len(args) {
	case 0:
		f, err := c.clock.SQWFrequency()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%dHz\n", f)
		return nil
	case 1:
		hz, err := strconv.ParseUint(strings.TrimSuffix(args[0], "Hz"), 10, 16)
		if err != nil {
			return fmt.Errorf("frequency: %w", err)
		}
		return c.clock.SetSQWFrequency(ds3231.Frequency(hz))
	}
	return ErrUsage
}

func (c *Console) alarm(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	a, err := parseAlarm(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		t, err := c.parseTime(args[1])
		if err != nil {
			return err
		}
		if err := c.clock.SetAlarmTime(a, t); err != nil {
			return err
		}
	}
	t, err := c.clock.AlarmTime(a)
	if err != nil {
		return err
	}
	c.printTime(fmt.Sprintf("alarm %d ", a), t)
	return nil
}

func (c *Console) tripped(args []string) error {
	reset := false
	switch {
	case len(args) == 2 && args[1] == "clear":
		reset = true
	case len(args) != 1:
		return ErrUsage
	}
	a, err := parseAlarm(args[0])
	if err != nil {
		return err
	}
	tripped, err := c.clock.AlarmTripped(a, reset)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, tripped)
	return nil
}

func (c *Console) alarmInt(args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	a, err := parseAlarm(args[0])
	if err != nil {
		return err
	}
	get := func() (bool, error) { return c.clock.AlarmInterruptEnabled(a) }
	set := func(on bool) error { return c.clock.EnableAlarmInterrupt(a, on) }
	return c.toggle(args[1:], get, set)
}

// parseTime accepts "now", Unix seconds or RFC 3339.
func (c *Console) parseTime(s string) (uint64, error) {
	if s == "now" {
		return uint64(c.Now().Unix()), nil
	}
	if t, err := strconv.ParseUint(s, 10, 64); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("time %q is neither Unix seconds nor RFC 3339", s)
	}
	if t.Unix() < 0 {
		return 0, ds3231.ErrBeforeY2000
	}
	return uint64(t.Unix()), nil
}

func parseAlarm(s string) (ds3231.Alarm, error) {
	switch s {
	case "1":
		return ds3231.Alarm1, nil
	case "2":
		return ds3231.Alarm2, nil
	}
	return 0, fmt.Errorf("alarm %q: %w", s, ds3231.ErrInvalidAlarm)
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("%q is neither on nor off", s)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

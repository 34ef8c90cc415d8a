package main

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/drivers/internal/config"
)

var errWrite = errors.New("write failed")

type testBus struct {
	regs       [0x13]byte
	failWrites bool
	closed     bool
}

func (b *testBus) ReadRegister(addr uint8, r uint8, buf []byte) error {
	copy(buf, b.regs[r:])
	return nil
}

func (b *testBus) WriteRegister(addr uint8, r uint8, buf []byte) error {
	if b.failWrites {
		return errWrite
	}
	copy(b.regs[r:], buf)
	return nil
}

func (b *testBus) Tx(addr uint16, w, r []byte) error {
	return nil
}

func (b *testBus) Close() error {
	b.closed = true
	return nil
}

func TestRunClosesBus(t *testing.T) {
	offset := int8(-3)
	tests := []struct {
		name       string
		cfg        config.Config
		args       []string
		failWrites bool
		err        string
	}{{
		name:       "aging offset fails",
		cfg:        config.Config{RTC: config.RTCConfig{Address: 0x68, AgingOffset: &offset}},
		failWrites: true,
		err:        "aging offset write failed: write failed",
	}, {
		name: "bad sync schedule",
		cfg:  config.Config{RTC: config.RTCConfig{Address: 0x68}, Sync: config.SyncConfig{Schedule: "every now and then"}},
		err:  "sync schedule failed: .*",
	}, {
		name:       "one-shot command fails",
		cfg:        config.Config{RTC: config.RTCConfig{Address: 0x68}},
		args:       []string{"aging", "4"},
		failWrites: true,
		err:        "write failed",
	}, {
		name: "one-shot command",
		cfg:  config.Config{RTC: config.RTCConfig{Address: 0x68, AgingOffset: &offset}},
		args: []string{"aging"},
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			b := &testBus{failWrites: test.failWrites}
			c.Patch(&openBus, func(string) (bus, error) {
				return b, nil
			})

			err := run(&test.cfg, test.args)
			if test.err == "" {
				c.Assert(err, qt.IsNil)
			} else {
				c.Assert(err, qt.ErrorMatches, test.err)
			}
			c.Assert(b.closed, qt.IsTrue)
		})
	}
}

func TestRunOpenFails(t *testing.T) {
	c := qt.New(t)
	c.Patch(&openBus, func(string) (bus, error) {
		return nil, errors.New("no such bus")
	})
	err := run(&config.Config{Bus: "9"}, nil)
	c.Assert(err, qt.ErrorMatches, `i2c open failed \(bus="9"\): no such bus`)
}

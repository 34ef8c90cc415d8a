// cmd/ds3231ctl/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ajanata/drivers"
	"github.com/ajanata/drivers/ds3231"
	"github.com/ajanata/drivers/internal/config"
	"github.com/ajanata/drivers/internal/console"
	"github.com/ajanata/drivers/internal/telemetry"
	"github.com/ajanata/drivers/periphi2c"
)

type bus interface {
	drivers.I2C
	Close() error
}

var openBus = func(name string) (bus, error) {
	return periphi2c.Open(name)
}

// ds3231ctl drives a DS3231 on a host I2C bus. With a command after the config path it runs that command and exits.
// Otherwise it reads commands from stdin while the scheduled sync and telemetry jobs run, and keeps the jobs running
// after stdin closes until it is signalled.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: ds3231ctl <config.yaml> [command ...]")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := run(cfg, os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource it opens, so all of them are released before an error reaches main.
func run(cfg *config.Config, args []string) error {

	// --------------------
	// Bus + chip
	// --------------------

	b, err := openBus(cfg.Bus)
	if err != nil {
		return fmt.Errorf("i2c open failed (bus=%q): %w", cfg.Bus, err)
	}
	defer b.Close()

	rtc := ds3231.New(b)
	rtc.Configure(ds3231.Config{Address: cfg.RTC.Address})
	rtc.OnCorrection = func(c ds3231.Civil) {
		log.Printf("applied Y2100 correction, chip date now %d-%02d-%02d", 2000+int(c.Year), c.Month, c.Day)
	}

	// every user of rtc takes this
	var mu sync.Mutex

	if cfg.RTC.AgingOffset != nil {
		if err := rtc.SetAgingOffset(*cfg.RTC.AgingOffset); err != nil {
			return fmt.Errorf("aging offset write failed: %w", err)
		}
	}

	con := console.New(rtc, &mu, os.Stdout)
	if len(args) > 0 {
		return con.ExecArgs(args)
	}

	// --------------------
	// Scheduled jobs
	// --------------------

	sched := telemetry.NewScheduler(log.Default())

	if cfg.Sync.Schedule != "" {
		syncer := telemetry.NewSyncer(rtc, &mu)
		if err := sched.Add("sync", cfg.Sync.Schedule, syncer.Sync); err != nil {
			return fmt.Errorf("sync schedule failed: %w", err)
		}
	}

	if cfg.MQTT.Schedule != "" {
		client, err := telemetry.Dial(cfg.MQTT)
		if err != nil {
			return err
		}
		defer client.Disconnect(250)

		rep := telemetry.NewReporter(rtc, &mu, client, cfg.MQTT)
		if err := sched.Add("report", cfg.MQTT.Schedule, rep.Report); err != nil {
			return fmt.Errorf("mqtt schedule failed: %w", err)
		}
		log.Printf("publishing to %s on %q", rep.Topic(), cfg.MQTT.Schedule)
	}

	sched.Start()
	defer func() {
		<-sched.Stop().Done()
	}()

	// --------------------
	// Console
	// --------------------

	if err := con.Run(os.Stdin); err != nil {
		log.Printf("console: %v", err)
	}
	if sched.Len() == 0 {
		return nil
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}

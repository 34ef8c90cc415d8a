// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks a normalized config.
func Validate(cfg *Config) error {
	if cfg.RTC.Address > 0x7F {
		return fmt.Errorf("rtc.address %#x is not a 7-bit I2C address", cfg.RTC.Address)
	}

	if cfg.Sync.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Sync.Schedule); err != nil {
			return fmt.Errorf("sync.schedule: %w", err)
		}
	}

	if cfg.MQTT.Schedule == "" {
		return nil
	}
	if _, err := cron.ParseStandard(cfg.MQTT.Schedule); err != nil {
		return fmt.Errorf("mqtt.schedule: %w", err)
	}
	if cfg.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt.schedule is set")
	}
	if cfg.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d out of range 0..2", cfg.MQTT.QoS)
	}
	return nil
}

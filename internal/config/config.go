// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Bus  string     `yaml:"bus"`
	RTC  RTCConfig  `yaml:"rtc"`
	Sync SyncConfig `yaml:"sync"`
	MQTT MQTTConfig `yaml:"mqtt"`
}

// ---- RTC ----

type RTCConfig struct {
	Address uint8 `yaml:"address"`

	// optional, applied on start when set
	AgingOffset *int8 `yaml:"aging_offset"`
}

// ---- HOST CLOCK SYNC ----

type SyncConfig struct {
	// cron schedule; empty disables the job
	Schedule string `yaml:"schedule"`
}

// ---- TELEMETRY ----

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
	Retained bool   `yaml:"retained"`

	// cron schedule; empty disables publishing
	Schedule string `yaml:"schedule"`

	// force a temperature conversion before each sample
	ForceConversion bool `yaml:"force_conversion"`
}

// Load reads, normalizes and validates a config file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	Normalize(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

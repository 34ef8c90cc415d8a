// internal/config/normalize.go
package config

const (
	DefaultAddress  = 0x68
	DefaultClientID = "ds3231ctl"
	DefaultTopic    = "ds3231"
)

// Normalize fills in defaults. It never overrides explicit values.
func Normalize(cfg *Config) {
	if cfg.RTC.Address == 0 {
		cfg.RTC.Address = DefaultAddress
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = DefaultClientID
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = DefaultTopic
	}
}

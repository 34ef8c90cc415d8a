// Package telemetry samples a DS3231 and publishes the samples over MQTT, and keeps the chip in step with the host
// clock. Both run as cron jobs.
package telemetry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	jsoniter "github.com/json-iterator/go"

	"github.com/ajanata/drivers/ds3231"
	"github.com/ajanata/drivers/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

var ErrPublishTimeout = errors.New("telemetry: publish timed out")

// Source is the part of *ds3231.Device that gets sampled.
type Source interface {
	Unix() (uint64, error)
	Temperature(force bool) (float32, error)
	TimeValid() (bool, error)
	AlarmTripped(a ds3231.Alarm, clear bool) (bool, error)
}

type Sample struct {
	Unix        uint64  `json:"unix"`
	Time        string  `json:"time"`
	Temperature float32 `json:"temperature"`
	TimeValid   bool    `json:"time_valid"`
	Alarm1      bool    `json:"alarm1"`
	Alarm2      bool    `json:"alarm2"`
}

// Read takes a sample. Alarm flags are left as they are.
func Read(src Source, force bool) (Sample, error) {
	var s Sample
	var err error
	if s.Unix, err = src.Unix(); err != nil {
		return s, err
	}
	s.Time = time.Unix(int64(s.Unix), 0).UTC().Format(time.RFC3339)
	if s.Temperature, err = src.Temperature(force); err != nil {
		return s, err
	}
	if s.TimeValid, err = src.TimeValid(); err != nil {
		return s, err
	}
	if s.Alarm1, err = src.AlarmTripped(ds3231.Alarm1, false); err != nil {
		return s, err
	}
	s.Alarm2, err = src.AlarmTripped(ds3231.Alarm2, false)
	return s, err
}

// Publisher is the part of mqtt.Client used to send samples.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Dial connects to the configured broker.
func Dial(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s: timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", cfg.Broker, err)
	}
	return client, nil
}

// Reporter publishes samples to <topic>/state.
type Reporter struct {
	src Source
	mu  sync.Locker
	pub Publisher
	cfg config.MQTTConfig
}

// NewReporter builds a Reporter. mu guards src and must be the lock every other user of the chip takes.
func NewReporter(src Source, mu sync.Locker, pub Publisher, cfg config.MQTTConfig) *Reporter {
	return &Reporter{src: src, mu: mu, pub: pub, cfg: cfg}
}

func (r *Reporter) Topic() string {
	return r.cfg.Topic + "/state"
}

// Report takes one sample and publishes it.
func (r *Reporter) Report() error {
	r.mu.Lock()
	s, err := Read(r.src, r.cfg.ForceConversion)
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	tok := r.pub.Publish(r.Topic(), r.cfg.QoS, r.cfg.Retained, payload)
	if !tok.WaitTimeout(publishTimeout) {
		return ErrPublishTimeout
	}
	return tok.Error()
}

// Setter is the part of *ds3231.Device a Syncer writes to.
type Setter interface {
	SetUnix(t uint64) error
}

// Syncer copies the host clock to the chip.
type Syncer struct {
	dst Setter
	mu  sync.Locker

	Now func() time.Time
}

func NewSyncer(dst Setter, mu sync.Locker) *Syncer {
	return &Syncer{dst: dst, mu: mu, Now: time.Now}
}

// Sync writes the host time, truncated to the second.
func (s *Syncer) Sync() error {
	t := s.Now().Unix()
	if t < 0 {
		return ds3231.ErrBeforeY2000
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dst.SetUnix(uint64(t))
}

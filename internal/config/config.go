// Package config loads settings from flags, PADCHECK_* environment variables
// and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PADCHECK"

type Config struct {
	Addr         string
	PollInterval time.Duration
	// Deadzone applied to stick positions shown to viewers. Circularity
	// scoring uses its own fixed threshold.
	Deadzone float64
	Debug    bool
	Tray     bool

	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string
	MQTTInterval    time.Duration
}

// URL is the address a browser should open.
func (c *Config) URL() string {
	addr := c.Addr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

// NewFlagSet declares every flag with its default.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "config file (yaml, toml or json)")
	fs.String("addr", ":8080", "HTTP listen address")
	fs.Duration("poll-interval", 16*time.Millisecond, "device polling interval")
	fs.Float64("deadzone", 0.1, "display deadzone for stick positions")
	fs.Bool("debug", false, "log every button and axis event")
	fs.Bool("tray", true, "show the system tray icon on Windows")
	fs.String("mqtt-broker", "", "MQTT broker URL for circularity telemetry (disabled when empty)")
	fs.String("mqtt-client-id", "padcheck", "MQTT client ID")
	fs.String("mqtt-topic-prefix", "padcheck", "MQTT topic prefix")
	fs.Duration("mqtt-interval", 5*time.Second, "MQTT publish interval")
	return fs
}

// Load parses args and merges them with the environment and config file.
func Load(args []string) (*Config, error) {
	fs := NewFlagSet("padcheck")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Addr:            v.GetString("addr"),
		PollInterval:    v.GetDuration("poll-interval"),
		Deadzone:        v.GetFloat64("deadzone"),
		Debug:           v.GetBool("debug"),
		Tray:            v.GetBool("tray"),
		MQTTBroker:      v.GetString("mqtt-broker"),
		MQTTClientID:    v.GetString("mqtt-client-id"),
		MQTTTopicPrefix: v.GetString("mqtt-topic-prefix"),
		MQTTInterval:    v.GetDuration("mqtt-interval"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll-interval must be positive, got %s", c.PollInterval))
	}
	if c.Deadzone < 0 || c.Deadzone >= 1 {
		errs = append(errs, fmt.Errorf("deadzone must be in [0, 1), got %g", c.Deadzone))
	}
	if c.MQTTBroker != "" && c.MQTTInterval <= 0 {
		errs = append(errs, fmt.Errorf("mqtt-interval must be positive, got %s", c.MQTTInterval))
	}
	return errors.Join(errs...)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Service names a TCP port whose availability is checked each cycle.
type Service struct {
	Name string `yaml:"name" validate:"required"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

// Endpoint describes one HTTP check candidate on a probed address.
// Endpoints are tried in order; the first that answers decides the outcome.
type Endpoint struct {
	Port int    `yaml:"port" validate:"min=1,max=65535"`
	Path string `yaml:"path" validate:"required,startswith=/"`
}

// Gateway names a local interface gateway probed for dual-path comparison.
type Gateway struct {
	Name    string `yaml:"name" validate:"required"`
	Address string `yaml:"address" validate:"required"`
}

// Config holds all engine settings. It is read-only to the engine once loaded.
type Config struct {
	// Addresses are candidate server IPs in priority order; the first one
	// with any passing probe is adopted for the cycle's reporting.
	Addresses []string `yaml:"addresses" validate:"min=1,dive,required"`

	Services   []Service  `yaml:"services" validate:"dive"`
	ProbePorts []int      `yaml:"probe_ports" validate:"min=1,dive,min=1,max=65535"`
	Endpoints  []Endpoint `yaml:"endpoints" validate:"dive"`
	Gateways   []Gateway  `yaml:"gateways" validate:"dive"`

	ProbeTimeoutSeconds int `yaml:"probe_timeout_seconds" validate:"min=1"`
	CacheTTLSeconds     int `yaml:"cache_ttl_seconds" validate:"min=1"`

	// FailureThreshold is the number of consecutive all-fail cycles required
	// before the host is declared offline. Any cycle with a single passing
	// probe resets the counter, so raise this if individual probes are flaky.
	FailureThreshold int `yaml:"failure_threshold" validate:"min=1"`

	HistoryCapacity     int `yaml:"history_capacity" validate:"min=1"`
	UptimeWindowMinutes int `yaml:"uptime_window_minutes" validate:"min=1"`

	// DataDirectory, when set, enables history snapshots across restarts.
	DataDirectory string `yaml:"data_directory"`
}

var validate = validator.New()

// DefaultConfig returns sensible defaults in case no configuration file is provided.
func DefaultConfig() Config {
	return Config{
		Addresses: []string{"192.168.2.2", "192.168.1.229"},
		Services: []Service{
			{Name: "SSH", Port: 22},
			{Name: "HTTP", Port: 80},
			{Name: "HTTPS", Port: 443},
			{Name: "Nextcloud", Port: 8080},
		},
		ProbePorts: []int{22, 80, 8080},
		Endpoints: []Endpoint{
			{Port: 8080, Path: "/status"},
			{Port: 80, Path: "/"},
			{Port: 8080, Path: "/"},
		},
		Gateways: []Gateway{
			{Name: "ethernet", Address: "192.168.2.1"},
			{Name: "wireless", Address: "192.168.1.254"},
		},
		ProbeTimeoutSeconds: 5,
		CacheTTLSeconds:     30,
		FailureThreshold:    3,
		HistoryCapacity:     1000,
		UptimeWindowMinutes: 60,
	}
}

// Load reads configuration from a yaml file. Missing files fall back to defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fails fast on malformed settings before any probing happens.
func (c Config) Validate() error {
	if len(c.Addresses) == 0 {
		return errors.New("configuration must define at least one candidate address")
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return fmt.Errorf("config field %s failed %q validation", e.Namespace(), e.Tag())
		}
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// ProbeTimeout is the per-probe deadline.
func (c Config) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutSeconds) * time.Second
}

// CacheTTL is how long a computed status is served without re-probing.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// UptimeWindow is the rolling window for the uptime percentage.
func (c Config) UptimeWindow() time.Duration {
	return time.Duration(c.UptimeWindowMinutes) * time.Minute
}

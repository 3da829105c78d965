package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// Port is the UDP port the DNS server will bind to.
	Port int `koanf:"port" validate:"required,gte=1,lt=65535"`

	// MetricsAddr is the optional listen address for the Prometheus
	// endpoint, in host:port form. Empty disables the endpoint.
	MetricsAddr string `koanf:"metrics_addr"`

	// Zone is the primary origin the server is authoritative for.
	Zone string `koanf:"zone" validate:"required"`

	// Aliases is a JSON array of additional origins answered with the
	// same records as the primary zone.
	Aliases string `koanf:"aliases"`

	// NameServers is a JSON array of NS hostnames. Relative names are
	// taken as subdomains of the zone; the first entry becomes the SOA
	// MNAME.
	NameServers string `koanf:"name_servers" validate:"required"`

	// Resolutions is a JSON object mapping each subdomain to its backend
	// IPs and the TCP port their health is probed on, e.g.
	// {"www":{"ips":["203.0.113.10"],"health_port":8080}}.
	Resolutions string `koanf:"resolutions" validate:"required"`

	// DNSSECKeyFile is the path to a PEM-encoded signing key. Empty
	// serves the zone unsigned.
	DNSSECKeyFile string `koanf:"dnssec_key_file"`

	// DNSSECAlgorithm names the signing algorithm the key file holds.
	DNSSECAlgorithm string `koanf:"dnssec_algorithm" validate:"omitempty,oneof=ed25519 ecdsap256sha256"`

	// MinInterval is the lower bound on the delay between refresh cycles.
	MinInterval time.Duration `koanf:"min_interval" validate:"required"`

	// ProbeTimeout bounds each TCP health probe.
	ProbeTimeout time.Duration `koanf:"probe_timeout" validate:"required"`
}

// DEFAULT_APP_CONFIG defines the default application configuration settings
// for the DNS service.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:          "prod",
	LogLevel:     "info",
	Port:         53,
	MinInterval:  30 * time.Second,
	ProbeTimeout: 2 * time.Second,
}

// envLoader loads environment variables with the prefix "PULSEDNS_",
// lowercasing keys and trimming values. Values are never split on commas:
// list- and map-valued settings are JSON strings and carry commas of their
// own. It can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "PULSEDNS_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, "PULSEDNS_"))
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// defaultLoader loads default configuration values into the provided Koanf
// instance using the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies default values and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := defaultLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	err = envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if (cfg.DNSSECKeyFile == "") != (cfg.DNSSECAlgorithm == "") {
		return nil, fmt.Errorf("dnssec_key_file and dnssec_algorithm must be set together")
	}

	return &cfg, nil
}

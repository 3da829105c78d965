package config

import (
	"errors"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
)

// setRequiredEnv sets the minimal environment a valid config needs. Tests
// layer overrides on top.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PULSEDNS_ZONE", "example.com")
	t.Setenv("PULSEDNS_NAME_SERVERS", `["ns1", "ns2"]`)
	t.Setenv("PULSEDNS_RESOLUTIONS", `{"www":{"ips":["203.0.113.10"],"health_port":8080}}`)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "prod" {
		t.Errorf("expected Env=prod, got %q", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected LogLevel=info, got %q", cfg.LogLevel)
	}
	if cfg.Port != 53 {
		t.Errorf("expected Port=53, got %d", cfg.Port)
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("expected MetricsAddr empty, got %q", cfg.MetricsAddr)
	}
	if cfg.MinInterval != 30*time.Second {
		t.Errorf("expected MinInterval=30s, got %v", cfg.MinInterval)
	}
	if cfg.ProbeTimeout != 2*time.Second {
		t.Errorf("expected ProbeTimeout=2s, got %v", cfg.ProbeTimeout)
	}
	if cfg.DNSSECKeyFile != "" || cfg.DNSSECAlgorithm != "" {
		t.Errorf("expected DNSSEC disabled by default, got key=%q algorithm=%q", cfg.DNSSECKeyFile, cfg.DNSSECAlgorithm)
	}
}

func TestLoad_ValidOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PULSEDNS_ENV", "dev")
	t.Setenv("PULSEDNS_LOG_LEVEL", "debug")
	t.Setenv("PULSEDNS_PORT", "9953")
	t.Setenv("PULSEDNS_METRICS_ADDR", "127.0.0.1:9090")
	t.Setenv("PULSEDNS_ALIASES", `["example.org"]`)
	t.Setenv("PULSEDNS_MIN_INTERVAL", "45s")
	t.Setenv("PULSEDNS_PROBE_TIMEOUT", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Env != "dev" {
		t.Errorf("expected Env=dev, got %q", cfg.Env)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %q", cfg.LogLevel)
	}
	if cfg.Port != 9953 {
		t.Errorf("expected Port=9953, got %d", cfg.Port)
	}
	if cfg.MetricsAddr != "127.0.0.1:9090" {
		t.Errorf("expected MetricsAddr=127.0.0.1:9090, got %q", cfg.MetricsAddr)
	}
	if cfg.Aliases != `["example.org"]` {
		t.Errorf("expected Aliases JSON carried through, got %q", cfg.Aliases)
	}
	if cfg.MinInterval != 45*time.Second {
		t.Errorf("expected MinInterval=45s, got %v", cfg.MinInterval)
	}
	if cfg.ProbeTimeout != 500*time.Millisecond {
		t.Errorf("expected ProbeTimeout=500ms, got %v", cfg.ProbeTimeout)
	}
}

func TestLoad_JSONValuesKeepCommas(t *testing.T) {
	// JSON-valued settings contain commas; the env loader must not split
	// them into lists.
	setRequiredEnv(t)
	t.Setenv("PULSEDNS_RESOLUTIONS", `{"www":{"ips":["203.0.113.10","203.0.113.11"],"health_port":8080}}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	want := `{"www":{"ips":["203.0.113.10","203.0.113.11"],"health_port":8080}}`
	if cfg.Resolutions != want {
		t.Errorf("expected Resolutions=%q, got %q", want, cfg.Resolutions)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("PULSEDNS_ZONE", "example.com")
	// name_servers and resolutions unset

	if _, err := Load(); err == nil {
		t.Error("expected validation error, got nil")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PULSEDNS_ENV", "staging")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for invalid env, got nil")
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PULSEDNS_LOG_LEVEL", "verbose")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for invalid log level, got nil")
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PULSEDNS_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for invalid port, got nil")
	}
}

func TestLoad_InvalidAlgorithm(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PULSEDNS_DNSSEC_KEY_FILE", "/etc/pulse-dns/zone.key")
	t.Setenv("PULSEDNS_DNSSEC_ALGORITHM", "rsasha256")

	if _, err := Load(); err == nil {
		t.Error("expected validation error for unsupported algorithm, got nil")
	}
}

func TestLoad_DNSSECSettingsMustPair(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PULSEDNS_DNSSEC_KEY_FILE", "/etc/pulse-dns/zone.key")

	if _, err := Load(); err == nil {
		t.Error("expected error for key file without algorithm, got nil")
	}

	t.Setenv("PULSEDNS_DNSSEC_KEY_FILE", "")
	t.Setenv("PULSEDNS_DNSSEC_ALGORITHM", "ed25519")

	if _, err := Load(); err == nil {
		t.Error("expected error for algorithm without key file, got nil")
	}
}

func TestLoad_WhenKoanfDefaultLoadFails(t *testing.T) {
	orig := defaultLoader
	defaultLoader = func(k *koanf.Koanf) error { return errors.New("mocked error") }
	defer func() { defaultLoader = orig }()

	if _, err := Load(); err == nil {
		t.Error("expected error when default loading fails, got nil")
	}
}

func TestLoad_WhenKoanfEnvLoadFails(t *testing.T) {
	orig := envLoader
	envLoader = func(k *koanf.Koanf) error { return errors.New("mocked error") }
	defer func() { envLoader = orig }()

	if _, err := Load(); err == nil {
		t.Error("expected error when env loading fails, got nil")
	}
}

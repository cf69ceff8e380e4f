package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds runtime options read from OCULUS_GUARD_* environment variables.
type Env struct {
	SettingsPath string        `env:"OCULUS_GUARD_SETTINGS"`
	LogLevel     string        `env:"OCULUS_GUARD_LOG_LEVEL"    envDefault:"info"`
	DNSServers   []string      `env:"OCULUS_GUARD_DNS_SERVERS"  envSeparator:","`
	DNSTimeout   time.Duration `env:"OCULUS_GUARD_DNS_TIMEOUT"  envDefault:"5s"`
	DNSAttempts  int           `env:"OCULUS_GUARD_DNS_ATTEMPTS" envDefault:"3"`
	SettleDelay  time.Duration `env:"OCULUS_GUARD_SETTLE_DELAY" envDefault:"2s"`
	ExitTimeout  time.Duration `env:"OCULUS_GUARD_EXIT_TIMEOUT" envDefault:"5s"`
}

// SettingsFileName is the settings file inside DataDir.
const SettingsFileName = "settings.yaml"

// LoadEnv parses and validates the runtime options.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	if e.SettingsPath == "" {
		e.SettingsPath = filepath.Join(DataDir(), SettingsFileName)
	}
	if err := e.Validate(); err != nil {
		return Env{}, err
	}
	return e, nil
}

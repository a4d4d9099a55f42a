package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables. Order of precedence (low -> high):
//  1. defaults (DefaultConfig)
//  2. file (YAML) if FXNOTIFY_CONFIG points at one
//  3. env vars with prefix FXNOTIFY_ (FXNOTIFY_WEBHOOK_URL -> webhook_url, ...)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("FXNOTIFY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("FXNOTIFY_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "fxnotify_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *DefaultConfig()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

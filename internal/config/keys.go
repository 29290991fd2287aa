package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "VIDMETA_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.rate_limit", typ: kInt, env: "VIDMETA_SERVER_RATE_LIMIT",
		apply:   func(cfg *Config, v any) { cfg.Server.RateLimit = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.RateLimit },
	},
	{
		key: "server.api_key", typ: kString, env: "VIDMETA_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Server.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.APIKey },
	},
	{
		key: "upstream.base_url", typ: kString, env: "VIDMETA_UPSTREAM_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Upstream.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Upstream.BaseURL },
	},
	{
		key: "upstream.cookies", typ: kString, env: "VIDMETA_NETFLIX_COOKIES",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Upstream.Cookies = v.(string) },
		extract: func(cfg Config) any { return cfg.Upstream.Cookies },
	},
	{
		key: "client.gateway_url", typ: kString, env: "VIDMETA_CLIENT_GATEWAY_URL",
		apply:   func(cfg *Config, v any) { cfg.Client.GatewayURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Client.GatewayURL },
	},
	{
		key: "client.share_base", typ: kString, env: "VIDMETA_CLIENT_SHARE_BASE",
		apply:   func(cfg *Config, v any) { cfg.Client.ShareBase = v.(string) },
		extract: func(cfg Config) any { return cfg.Client.ShareBase },
	},
	{
		key: "storage.data_dir", typ: kString, env: "VIDMETA_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "log.level", typ: kString, env: "VIDMETA_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}

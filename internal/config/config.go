package config

import (
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Client   ClientConfig
	Storage  StorageConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port      int
	RateLimit int
	// APIKey guards cookie updates. Empty means updates are disabled:
	// the endpoint fails closed rather than accepting any caller.
	APIKey string
}

type UpstreamConfig struct {
	BaseURL string
	// Cookies is the compiled-in/default credential used when the
	// persistent store carries none.
	Cookies string
}

type ClientConfig struct {
	GatewayURL string
	ShareBase  string
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:      8787,
			RateLimit: 100,
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://web.prod.cloud.netflix.com/graphql",
		},
		Client: ClientConfig{
			GatewayURL: "http://127.0.0.1:8787",
			ShareBase:  "http://127.0.0.1:8787/",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a .env file if present, the platform-native
// backend, environment variables, and the platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.vidmeta.app) and secrets
// fall back to macOS Keychain. On Linux the backend is a JSON file at
// $XDG_CONFIG_HOME/vidmeta/config.json and secrets at
// $XDG_DATA_HOME/vidmeta/secrets.json.
//
// Environment variables (VIDMETA_*) override backend values on all platforms.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts secret-store access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Secrets never live in the backend; try the platform secret store
	// when the environment did not provide them. Both stay optional.
	if cfg.Server.APIKey == "" {
		if key, err := kc.Get("vidmeta", "api_key"); err == nil && key != "" {
			cfg.Server.APIKey = key
		}
	}
	if cfg.Upstream.Cookies == "" {
		if v, err := kc.Get("vidmeta", "netflix_cookies"); err == nil && v != "" {
			cfg.Upstream.Cookies = v
		}
	}

	return cfg, nil
}

// APIKeyGuidance explains how to configure the cookie-update secret.
func APIKeyGuidance() string {
	return "set it via environment variable VIDMETA_API_KEY" + apiKeyHint()
}

// keychainReader reads from the platform secret store.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

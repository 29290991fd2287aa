package config

import (
	"testing"
)

// memBackend is an in-memory ConfigBackend for tests.
type memBackend struct {
	strings map[string]string
	ints    map[string]int
}

func newMemBackend() *memBackend {
	return &memBackend{strings: make(map[string]string), ints: make(map[string]int)}
}

func (m *memBackend) GetString(key string) (string, bool, error) {
	v, ok := m.strings[key]
	return v, ok, nil
}

func (m *memBackend) GetInt(key string) (int, bool, error) {
	v, ok := m.ints[key]
	return v, ok, nil
}

func (m *memBackend) SetString(key, val string) error { m.strings[key] = val; return nil }
func (m *memBackend) SetInt(key string, val int) error { m.ints[key] = val; return nil }
func (m *memBackend) Delete(key string) error {
	delete(m.strings, key)
	delete(m.ints, key)
	return nil
}

// mockKeychain is a test double for the keychain interface.
type mockKeychain struct {
	values map[string]string
}

func (m mockKeychain) Get(service, account string) (string, error) {
	return m.values[service+"/"+account], nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, s := range specs {
		t.Setenv(s.env, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadWith(newMemBackend(), mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8787 {
		t.Errorf("Server.Port = %d, want 8787", cfg.Server.Port)
	}
	if cfg.Server.RateLimit != 100 {
		t.Errorf("Server.RateLimit = %d, want 100", cfg.Server.RateLimit)
	}
	if cfg.Server.APIKey != "" {
		t.Errorf("Server.APIKey = %q, want empty", cfg.Server.APIKey)
	}
	if cfg.Upstream.BaseURL != "https://web.prod.cloud.netflix.com/graphql" {
		t.Errorf("Upstream.BaseURL = %q", cfg.Upstream.BaseURL)
	}
	if cfg.Client.GatewayURL != "http://127.0.0.1:8787" {
		t.Errorf("Client.GatewayURL = %q", cfg.Client.GatewayURL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("Storage.DataDir is empty")
	}
}

func TestBackendValuesApplied(t *testing.T) {
	clearEnv(t)

	b := newMemBackend()
	b.SetInt("server.port", 9000)
	b.SetString("client.gateway_url", "http://gateway.local:9000")

	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Client.GatewayURL != "http://gateway.local:9000" {
		t.Errorf("Client.GatewayURL = %q", cfg.Client.GatewayURL)
	}
}

func TestEnvOverridesBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIDMETA_SERVER_PORT", "9999")
	t.Setenv("VIDMETA_API_KEY", "env-secret")
	t.Setenv("VIDMETA_NETFLIX_COOKIES", "NetflixId=env")

	b := newMemBackend()
	b.SetInt("server.port", 9000)

	cfg, err := loadWith(b, mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want env override 9999", cfg.Server.Port)
	}
	if cfg.Server.APIKey != "env-secret" {
		t.Errorf("Server.APIKey = %q", cfg.Server.APIKey)
	}
	if cfg.Upstream.Cookies != "NetflixId=env" {
		t.Errorf("Upstream.Cookies = %q", cfg.Upstream.Cookies)
	}
}

func TestBadEnvIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIDMETA_SERVER_PORT", "not-a-number")

	cfg, err := loadWith(newMemBackend(), mockKeychain{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8787 {
		t.Errorf("Server.Port = %d, want default 8787", cfg.Server.Port)
	}
}

func TestSecretsFromKeychain(t *testing.T) {
	clearEnv(t)

	kc := mockKeychain{values: map[string]string{
		"vidmeta/api_key":         "kc-secret",
		"vidmeta/netflix_cookies": "NetflixId=kc",
	}}
	cfg, err := loadWith(newMemBackend(), kc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.APIKey != "kc-secret" {
		t.Errorf("Server.APIKey = %q, want keychain value", cfg.Server.APIKey)
	}
	if cfg.Upstream.Cookies != "NetflixId=kc" {
		t.Errorf("Upstream.Cookies = %q, want keychain value", cfg.Upstream.Cookies)
	}
}

func TestEnvWinsOverKeychain(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIDMETA_API_KEY", "env-secret")

	kc := mockKeychain{values: map[string]string{"vidmeta/api_key": "kc-secret"}}
	cfg, err := loadWith(newMemBackend(), kc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.APIKey != "env-secret" {
		t.Errorf("Server.APIKey = %q, want env to win", cfg.Server.APIKey)
	}
}

func TestShowAllHidesSecrets(t *testing.T) {
	clearEnv(t)
	cfg := defaults()
	cfg.Server.APIKey = "secret"

	for _, info := range ShowAll(cfg) {
		if info.Key == "server.api_key" || info.Key == "upstream.cookies" {
			t.Errorf("secret key %q exposed by ShowAll", info.Key)
		}
		if info.Value == "secret" {
			t.Errorf("secret value leaked under key %q", info.Key)
		}
	}
}

func TestValidKeysExcludeSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "server.api_key" || k == "upstream.cookies" {
			t.Errorf("secret key %q listed as settable", k)
		}
	}
}

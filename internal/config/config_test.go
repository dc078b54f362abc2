package config

import (
	"os"
	"testing"
)

func TestEnvOr(t *testing.T) {
	// Unset key returns fallback
	os.Unsetenv("TEST_ENVOR_KEY")
	if got := envOr("TEST_ENVOR_KEY", "default"); got != "default" {
		t.Errorf("envOr unset key = %q, want %q", got, "default")
	}

	// Set key returns value
	os.Setenv("TEST_ENVOR_KEY", "custom")
	defer os.Unsetenv("TEST_ENVOR_KEY")
	if got := envOr("TEST_ENVOR_KEY", "default"); got != "custom" {
		t.Errorf("envOr set key = %q, want %q", got, "custom")
	}

	// Empty string returns fallback
	os.Setenv("TEST_ENVOR_KEY", "")
	if got := envOr("TEST_ENVOR_KEY", "fallback"); got != "fallback" {
		t.Errorf("envOr empty key = %q, want %q", got, "fallback")
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "DATABASE_URL", "REDIS_URL", "REDIS_PASSWORD", "FRONTEND_ORIGIN",
		"ETHERSCAN_API_KEY", "ETHERSCAN_ADDRESS", "DUNE_API_KEY", "DUNE_QUERY_ID",
		"TENDERLY_ACCESS_KEY", "INFISICAL_CLIENT_ID", "INFISICAL_CLIENT_SECRET",
	} {
		os.Unsetenv(k)
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.FrontendOrigin != "*" {
		t.Errorf("FrontendOrigin = %q, want %q", cfg.FrontendOrigin, "*")
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.EtherscanAddress == "" {
		t.Error("EtherscanAddress should have a default")
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DATABASE_URL", "postgres://test")
	os.Setenv("ETHERSCAN_API_KEY", "test-key")
	os.Setenv("DUNE_QUERY_ID", "12345")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("ETHERSCAN_API_KEY")
		os.Unsetenv("DUNE_QUERY_ID")
	}()

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want %q", cfg.Port, "9090")
	}
	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("DatabaseURL = %q, want %q", cfg.DatabaseURL, "postgres://test")
	}
	if cfg.EtherscanAPIKey != "test-key" {
		t.Errorf("EtherscanAPIKey = %q, want %q", cfg.EtherscanAPIKey, "test-key")
	}
	if cfg.DuneQueryID != "12345" {
		t.Errorf("DuneQueryID = %q, want %q", cfg.DuneQueryID, "12345")
	}
}

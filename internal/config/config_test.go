package config

import (
	"testing"
	"time"

	"github.com/gridironai/gameday/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "gameday" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.ScoreboardTTL != 60*time.Second {
		t.Fatalf("unexpected ScoreboardTTL: %s", cfg.ScoreboardTTL)
	}
	if cfg.InjuriesTTL != 15*time.Minute {
		t.Fatalf("unexpected InjuriesTTL: %s", cfg.InjuriesTTL)
	}
	if cfg.TendenciesTTL != 60*time.Minute {
		t.Fatalf("unexpected TendenciesTTL: %s", cfg.TendenciesTTL)
	}
	if cfg.DefaultSampleGames != 3 {
		t.Fatalf("unexpected DefaultSampleGames: %d", cfg.DefaultSampleGames)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_InvalidDurationRejected(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("TENDENCIES_CACHE_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid TENDENCIES_CACHE_TTL")
	}
}

func TestLoad_CacheAndUpstreamOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("ESPN_SITE_BASE_URL", "http://localhost:9999/site")
	t.Setenv("ESPN_TIMEOUT", "3s")
	t.Setenv("INJURIES_CACHE_TTL", "5m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEFAULT_SAMPLE_GAMES", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppEnv != EnvProd {
		t.Fatalf("unexpected AppEnv: %q", cfg.AppEnv)
	}
	if cfg.ESPNSiteBaseURL != "http://localhost:9999/site" {
		t.Fatalf("unexpected ESPNSiteBaseURL: %q", cfg.ESPNSiteBaseURL)
	}
	if cfg.ESPNTimeout != 3*time.Second {
		t.Fatalf("unexpected ESPNTimeout: %s", cfg.ESPNTimeout)
	}
	if cfg.InjuriesTTL != 5*time.Minute {
		t.Fatalf("unexpected InjuriesTTL: %s", cfg.InjuriesTTL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
	for i, origin := range want {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("unexpected origin at %d: %q", i, cfg.CORSAllowedOrigins[i])
		}
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
	if cfg.DefaultSampleGames != 5 {
		t.Fatalf("unexpected DefaultSampleGames: %d", cfg.DefaultSampleGames)
	}
}

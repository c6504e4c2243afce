package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	conf, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if conf.BatchSize != 30 || conf.NoticeTTL != 5*time.Second || conf.Server.Port != 8080 {
		t.Errorf("unexpected defaults: %+v", conf)
	}
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"language":"fi","proxy_url":"http://localhost:9999","map":{"zoom":16}}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	conf, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if conf.Language != "fi" || conf.ProxyURL != "http://localhost:9999" {
		t.Errorf("file values not applied: %+v", conf)
	}
	if conf.Map.Zoom != 16 || conf.Map.CenterLat != 62.2416 {
		t.Errorf("map should merge with defaults: %+v", conf.Map)
	}
	if conf.FacilitiesBaseURL != "https://navi.jyu.fi/api" {
		t.Errorf("unset fields should keep defaults, got %s", conf.FacilitiesBaseURL)
	}
}

func TestLoadFileRejectsDirectory(t *testing.T) {
	if _, err := LoadFile(t.TempDir()); err == nil {
		t.Error("expected error for directory path")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("JYU_ROOMS_BATCH_SIZE", "10")
	t.Setenv("JYU_ROOMS_NOTICE_TTL", "2s")
	t.Setenv("SERVER_CORS_ORIGINS", "http://a,http://b")
	t.Setenv("SERVER_PORT", "not-a-number")

	conf := Default()
	applyEnv(&conf)
	if conf.BatchSize != 10 || conf.NoticeTTL != 2*time.Second {
		t.Errorf("env overrides not applied: %+v", conf)
	}
	if len(conf.Server.CorsOrigins) != 2 {
		t.Errorf("unexpected cors origins: %v", conf.Server.CorsOrigins)
	}
	if conf.Server.Port != 8080 {
		t.Errorf("invalid port should keep default, got %d", conf.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	conf := Default()
	conf.Language = "sv"
	if err := validate(conf); err == nil {
		t.Error("expected language error")
	}
	conf = Default()
	conf.BatchSize = 0
	if err := validate(conf); err == nil {
		t.Error("expected batch size error")
	}
	if err := validate(Default()); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

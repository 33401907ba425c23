package advisor

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("a missing settings file should yield the defaults, got %v", err)
	}
	if s != DefaultSettings() {
		t.Errorf("settings = %+v, want the defaults", s)
	}
}

func TestLoadSettingsPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.json")
	content := `{"risk_per_trade": 0.02, "benchmark": "^STOXX50E", "cache_ttl_seconds": 60}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.RiskPerTrade != 0.02 {
		t.Errorf("risk per trade = %g, want the override 0.02", s.RiskPerTrade)
	}
	if s.Benchmark != "^STOXX50E" {
		t.Errorf("benchmark = %s, want the override", s.Benchmark)
	}
	if s.CacheTTL() != time.Minute {
		t.Errorf("cache ttl = %s, want 1m", s.CacheTTL())
	}
	// Untouched fields keep their defaults.
	if s.StopLoss != DefaultStopLoss || s.Currency != "USD" || s.ConfidenceThreshold != DefaultConfidenceThreshold {
		t.Errorf("defaults lost: %+v", s)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advisor.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Error("invalid settings should fail loudly, not fall back silently")
	}
}

func TestDefaultCacheTTL(t *testing.T) {
	if got := DefaultSettings().CacheTTL(); got != 5*time.Minute {
		t.Errorf("default cache ttl = %s, want 5m", got)
	}
}

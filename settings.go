package advisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Default risk parameters, used when the settings file does not override them.
const (
	DefaultRiskFreeRate        = 0.04
	DefaultRiskPerTrade        = 0.05
	DefaultMaxPositionFraction = 0.20
	DefaultStopLoss            = 0.05
	DefaultBenchmark           = "^GSPC"
	DefaultVaRConfidence       = 0.95
	DefaultVaRHorizonDays      = 1
	DefaultConfidenceThreshold = 0.60
	DefaultCacheTTL            = 5 * time.Minute
)

// Settings gathers the tunable parameters of the advisor. All fields have
// sensible defaults; a settings file only needs the ones it changes.
type Settings struct {
	Currency            string  `json:"currency"`
	Benchmark           string  `json:"benchmark"`
	RiskFreeRate        float64 `json:"risk_free_rate"`
	RiskPerTrade        float64 `json:"risk_per_trade"`
	StopLoss            float64 `json:"stop_loss"`
	MaxPositionFraction float64 `json:"max_position_fraction"`
	VaRConfidence       float64 `json:"var_confidence"`
	VaRHorizonDays      int     `json:"var_horizon_days"`
	// ConfidenceThreshold is the confidence below which a recommendation is
	// considered weak. Accepting one prints a warning, it is never blocked.
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	CacheTTLSeconds     int     `json:"cache_ttl_seconds"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Currency:            "USD",
		Benchmark:           DefaultBenchmark,
		RiskFreeRate:        DefaultRiskFreeRate,
		RiskPerTrade:        DefaultRiskPerTrade,
		StopLoss:            DefaultStopLoss,
		MaxPositionFraction: DefaultMaxPositionFraction,
		VaRConfidence:       DefaultVaRConfidence,
		VaRHorizonDays:      DefaultVaRHorizonDays,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		CacheTTLSeconds:     int(DefaultCacheTTL / time.Second),
	}
}

// LoadSettings reads a settings file and merges it over the defaults. A
// missing file is not an error: it yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	buf, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}
	if err := json.Unmarshal(buf, &s); err != nil {
		return s, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return s, nil
}

// CacheTTL returns the market-data cache time-to-live as a duration.
func (s Settings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

package purity

import (
	"strings"

	"pureproxy/internal/config"
)

// Mode identifies how a candidate entered the pipeline. Curated list imports
// start from a higher baseline than ad-hoc manual submissions.
type Mode string

const (
	ModeImport Mode = "import"
	ModeManual Mode = "manual"
)

type Input struct {
	Mode        Mode
	LatencyMs   int
	Residential bool
	CountryCode string
	ISP         string
}

// Weights is the single configurable scoring policy: a baseline per mode
// plus bounded additive adjustments, clamped to [0,100] at the end.
type Weights struct {
	ImportBaseline     int
	ManualBaseline     int
	FastLatencyMs      int
	FastLatencyBonus   int
	SlowLatencyMs      int
	SlowLatencyPenalty int
	ResidentialBonus   int
	CountryBonus       int
	PreferredCountries []string
	PlatformToken      string
	PlatformPenalty    int
}

func DefaultWeights() Weights {
	return Weights{
		ImportBaseline:     80,
		ManualBaseline:     60,
		FastLatencyMs:      300,
		FastLatencyBonus:   10,
		SlowLatencyMs:      1000,
		SlowLatencyPenalty: 5,
		ResidentialBonus:   15,
		CountryBonus:       5,
		PreferredCountries: []string{"US", "SG", "JP", "HK", "KR"},
		PlatformToken:      "cloudflare",
		PlatformPenalty:    20,
	}
}

// WeightsFromConfig maps the persisted scoring table onto Weights, falling
// back to the defaults when the config section is zero-valued.
func WeightsFromConfig(cfg config.ScoringConfig) Weights {
	if cfg.ImportBaseline == 0 && cfg.ManualBaseline == 0 {
		return DefaultWeights()
	}

	return Weights{
		ImportBaseline:     cfg.ImportBaseline,
		ManualBaseline:     cfg.ManualBaseline,
		FastLatencyMs:      cfg.FastLatencyMs,
		FastLatencyBonus:   cfg.FastLatencyBonus,
		SlowLatencyMs:      cfg.SlowLatencyMs,
		SlowLatencyPenalty: cfg.SlowLatencyPenalty,
		ResidentialBonus:   cfg.ResidentialBonus,
		CountryBonus:       cfg.CountryBonus,
		PreferredCountries: cfg.PreferredCountries,
		PlatformToken:      strings.ToLower(cfg.PlatformToken),
		PlatformPenalty:    cfg.PlatformPenalty,
	}
}

// Score is deterministic for a given input and weight set.
func Score(input Input, w Weights) int {
	score := w.ImportBaseline
	if input.Mode == ModeManual {
		score = w.ManualBaseline
	}

	if input.LatencyMs > 0 && w.FastLatencyMs > 0 && input.LatencyMs < w.FastLatencyMs {
		score += w.FastLatencyBonus
	}
	// Slow relays only count against manual submissions; curated lists are
	// re-checked often enough that a single slow probe is noise.
	if input.Mode == ModeManual && w.SlowLatencyMs > 0 && input.LatencyMs > w.SlowLatencyMs {
		score -= w.SlowLatencyPenalty
	}

	if input.Residential {
		score += w.ResidentialBonus
	}

	for _, country := range w.PreferredCountries {
		if strings.EqualFold(country, input.CountryCode) {
			score += w.CountryBonus
			break
		}
	}

	if w.PlatformToken != "" && strings.Contains(strings.ToLower(input.ISP), w.PlatformToken) {
		score -= w.PlatformPenalty
	}

	return clamp(score)
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

package purity

import (
	"testing"

	"pureproxy/internal/domain"
)

func TestScoreBaselines(t *testing.T) {
	w := DefaultWeights()

	importScore := Score(Input{Mode: ModeImport, LatencyMs: 500, CountryCode: "DE"}, w)
	if importScore != 80 {
		t.Errorf("import baseline score = %d, want 80", importScore)
	}

	manualScore := Score(Input{Mode: ModeManual, LatencyMs: 500, CountryCode: "DE"}, w)
	if manualScore != 60 {
		t.Errorf("manual baseline score = %d, want 60", manualScore)
	}
}

func TestScoreResidentialIsMonotonic(t *testing.T) {
	w := DefaultWeights()
	base := Input{Mode: ModeManual, LatencyMs: 500, CountryCode: "DE"}

	withIt := base
	withIt.Residential = true

	if Score(withIt, w) <= Score(base, w) {
		t.Error("residential endpoint did not score higher than identical non-residential one")
	}
}

func TestScoreAdjustments(t *testing.T) {
	w := DefaultWeights()

	fast := Score(Input{Mode: ModeImport, LatencyMs: 120, CountryCode: "DE"}, w)
	if fast != 90 {
		t.Errorf("fast latency score = %d, want 90", fast)
	}

	slowManual := Score(Input{Mode: ModeManual, LatencyMs: 1500, CountryCode: "DE"}, w)
	if slowManual != 55 {
		t.Errorf("slow manual score = %d, want 55", slowManual)
	}

	// Imports are not penalized for one slow probe.
	slowImport := Score(Input{Mode: ModeImport, LatencyMs: 1500, CountryCode: "DE"}, w)
	if slowImport != 80 {
		t.Errorf("slow import score = %d, want 80", slowImport)
	}

	preferred := Score(Input{Mode: ModeImport, LatencyMs: 500, CountryCode: "sg"}, w)
	if preferred != 85 {
		t.Errorf("preferred country score = %d, want 85", preferred)
	}

	platform := Score(Input{Mode: ModeImport, LatencyMs: 500, CountryCode: "DE", ISP: "Cloudflare, Inc."}, w)
	if platform != 60 {
		t.Errorf("platform-owned score = %d, want 60", platform)
	}
}

func TestScoreClamps(t *testing.T) {
	w := DefaultWeights()

	top := Score(Input{
		Mode:        ModeImport,
		LatencyMs:   100,
		Residential: true,
		CountryCode: "US",
	}, w)
	if top != 100 {
		t.Errorf("score = %d, want clamp at 100", top)
	}

	floor := w
	floor.ManualBaseline = 5
	floor.PlatformPenalty = 50
	bottom := Score(Input{Mode: ModeManual, LatencyMs: 500, ISP: "cloudflare"}, floor)
	if bottom != 0 {
		t.Errorf("score = %d, want clamp at 0", bottom)
	}
}

func TestZeroLatencyGetsNoFastBonus(t *testing.T) {
	w := DefaultWeights()
	if got := Score(Input{Mode: ModeImport, LatencyMs: 0, CountryCode: "DE"}, w); got != 80 {
		t.Errorf("score with unknown latency = %d, want 80", got)
	}
}

func TestRiskTierBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, domain.RiskTierLow},
		{85, domain.RiskTierLow},
		{80, domain.RiskTierLow},
		{79, domain.RiskTierMedium},
		{50, domain.RiskTierMedium},
		{49, domain.RiskTierHigh},
		{0, domain.RiskTierHigh},
	}
	for _, tc := range cases {
		if got := domain.RiskTierForScore(tc.score); got != tc.want {
			t.Errorf("RiskTierForScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

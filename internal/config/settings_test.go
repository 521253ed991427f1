package config

import (
	"encoding/json"
	"testing"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal(defaultConfig, &cfg); err != nil {
		t.Fatalf("embedded default settings do not parse: %v", err)
	}

	if len(cfg.Sources) == 0 {
		t.Error("default settings ship no sources")
	}
	if cfg.Checker.BatchSize < 1 || cfg.Checker.ScanLimit < 1 {
		t.Errorf("checker limits invalid: batch=%d scan=%d", cfg.Checker.BatchSize, cfg.Checker.ScanLimit)
	}
	if cfg.Checker.ProbeHost == "" || cfg.Checker.ProbeMarker == "" {
		t.Error("probe target not configured in defaults")
	}
	if len(cfg.ExcludedCIDRs) == 0 {
		t.Error("default settings ship no excluded networks")
	}

	for _, entry := range cfg.ExcludedCIDRs {
		if _, err := ParseCIDR(entry); err != nil {
			t.Errorf("default excluded cidr %q does not parse: %v", entry, err)
		}
	}
}

func TestApplyUpdatesExcludedNetworks(t *testing.T) {
	t.Cleanup(func() {
		Apply(Config{})
	})

	cfg := Config{ExcludedCIDRs: []string{"104.16.0.0/13"}}
	Apply(cfg)

	networks := GetExcludedNetworks()
	if len(networks) != 1 {
		t.Fatalf("excluded networks = %d, want 1", len(networks))
	}

	ip, _ := ParseIPv4("104.20.1.1")
	if !networks[0].Contains(ip) {
		t.Error("applied network does not contain expected address")
	}
}

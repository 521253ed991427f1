package config

import (
	"testing"
	"time"
)

func TestCalculateBetweenTime(t *testing.T) {
	got := CalculateBetweenTime(Timer{Minutes: 30})
	if got != 30*time.Minute {
		t.Errorf("CalculateBetweenTime = %v, want 30m", got)
	}

	got = CalculateBetweenTime(Timer{Days: 1, Hours: 2, Minutes: 3, Seconds: 4})
	want := 24*time.Hour + 2*time.Hour + 3*time.Minute + 4*time.Second
	if got != want {
		t.Errorf("CalculateBetweenTime = %v, want %v", got, want)
	}
}

func TestCalculateBetweenTimeEnforcesFloor(t *testing.T) {
	if got := CalculateBetweenTime(Timer{}); got != time.Second {
		t.Errorf("zero timer interval = %v, want 1s floor", got)
	}
}

func TestSetBetweenTimeUsesDefaultForZeroTimer(t *testing.T) {
	t.Cleanup(func() { importInterval.Store(defaultImportInterval) })

	Apply(Config{})
	SetBetweenTime()
	if got := GetImportInterval(); got != defaultImportInterval {
		t.Errorf("import interval = %v, want default %v", got, defaultImportInterval)
	}

	cfg := Config{}
	cfg.Checker.ImportTimer = Timer{Minutes: 5}
	Apply(cfg)
	SetBetweenTime()
	if got := GetImportInterval(); got != 5*time.Minute {
		t.Errorf("import interval = %v, want 5m", got)
	}
}

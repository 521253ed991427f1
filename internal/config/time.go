package config

import (
	"sync/atomic"
	"time"
)

const defaultImportInterval = 30 * time.Minute

var importInterval atomic.Value

func init() {
	importInterval.Store(defaultImportInterval)
}

func SetBetweenTime() {
	cfg := GetConfig()
	importInterval.Store(calculateImportInterval(cfg))
}

func CalculateBetweenTime(timer Timer) time.Duration {
	intervalMs := CalculateMillisecondsOfCheckingPeriod(timer)

	// Enforce minimum interval
	minInterval := uint64(1000)
	if intervalMs < minInterval {
		intervalMs = minInterval
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func CalculateMillisecondsOfCheckingPeriod(timer Timer) uint64 {
	return uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000
}

func GetImportInterval() time.Duration {
	return importInterval.Load().(time.Duration)
}

func calculateImportInterval(cfg Config) time.Duration {
	timer := cfg.Checker.ImportTimer
	if timer.Days == 0 && timer.Hours == 0 && timer.Minutes == 0 && timer.Seconds == 0 {
		return defaultImportInterval
	}
	return CalculateBetweenTime(timer)
}

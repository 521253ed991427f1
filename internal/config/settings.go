package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

type Config struct {
	Sources []Source `json:"sources"`

	Checker struct {
		BatchSize      int    `json:"batch_size"`
		ScanLimit      int    `json:"scan_limit"`
		DefaultPort    uint16 `json:"default_port"`
		ConnectTimeout uint32 `json:"connect_timeout"` // milliseconds
		ReadTimeout    uint32 `json:"read_timeout"`    // milliseconds
		ProbeHost      string `json:"probe_host"`
		ProbeMarker    string `json:"probe_marker"`
		ImportTimer    Timer  `json:"import_timer"`
	} `json:"checker"`

	Enrichment struct {
		LookupURL           string   `json:"lookup_url"`
		Timeout             uint32   `json:"timeout"`   // milliseconds
		MinDelay            uint32   `json:"min_delay"` // milliseconds
		MaxDelay            uint32   `json:"max_delay"` // milliseconds
		DatacenterKeywords  []string `json:"datacenter_keywords"`
		ResidentialKeywords []string `json:"residential_keywords"`
	} `json:"enrichment"`

	Scoring ScoringConfig `json:"scoring"`

	// Networks owned by the fronting platform. Candidates inside these
	// ranges must never be reported as third-party relays.
	ExcludedCIDRs []string `json:"excluded_cidrs"`
}

type Source struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Timer struct {
	Days    uint32 `json:"days"`
	Hours   uint32 `json:"hours"`
	Minutes uint32 `json:"minutes"`
	Seconds uint32 `json:"seconds"`
}

type ScoringConfig struct {
	ImportBaseline     int      `json:"import_baseline"`
	ManualBaseline     int      `json:"manual_baseline"`
	FastLatencyMs      int      `json:"fast_latency_ms"`
	FastLatencyBonus   int      `json:"fast_latency_bonus"`
	SlowLatencyMs      int      `json:"slow_latency_ms"`
	SlowLatencyPenalty int      `json:"slow_latency_penalty"`
	ResidentialBonus   int      `json:"residential_bonus"`
	CountryBonus       int      `json:"country_bonus"`
	PreferredCountries []string `json:"preferred_countries"`
	PlatformToken      string   `json:"platform_token"`
	PlatformPenalty    int      `json:"platform_penalty"`
}

const settingsFilePath = "data/settings.json"

var (
	//go:embed default_settings.json
	defaultConfig []byte

	configValue atomic.Value
	configMu    sync.Mutex

	InProductionMode bool
)

func init() {
	configValue.Store(Config{})
}

func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			if err := os.MkdirAll("data", os.ModePerm); err != nil {
				log.Error("Error creating directory for settings file:", err)
				return
			}

			if err := os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm); err != nil {
				log.Error("Error writing default settings file:", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file:", err)
			return
		}
	}

	var newConfig Config
	if err := json.Unmarshal(data, &newConfig); err != nil {
		log.Error("Error unmarshalling settings file:", err)
		return
	}

	applyConfigUpdate(newConfig, configUpdateOptions{source: "file"})
	log.Debug("Settings file loaded successfully")
}

// SetConfig applies the new configuration and persists it to the settings
// file.
func SetConfig(newConfig Config) {
	applyConfigUpdate(newConfig, configUpdateOptions{persistToFile: true, source: "local"})
	log.Debug("Configuration updated and written to file successfully")
}

// Apply stores the new configuration without touching the settings file.
func Apply(newConfig Config) {
	applyConfigUpdate(newConfig, configUpdateOptions{source: "runtime"})
}

type configUpdateOptions struct {
	persistToFile bool
	source        string
}

func applyConfigUpdate(newConfig Config, opts configUpdateOptions) {
	configMu.Lock()
	defer configMu.Unlock()

	configValue.Store(newConfig)
	updateExcludedNetworks(newConfig.ExcludedCIDRs)
	SetBetweenTime()

	if opts.persistToFile {
		data, err := json.MarshalIndent(newConfig, "", "  ")
		if err != nil {
			log.Error("Error marshalling new configuration:", err)
		} else if err := os.WriteFile(settingsFilePath, data, os.ModePerm); err != nil {
			log.Error("Error writing new configuration to file:", err)
		}
	}

	if opts.source != "" {
		log.Debug("Configuration applied", "source", opts.source)
	}
}

func GetConfig() Config {
	return configValue.Load().(Config)
}

func SetProductionMode(productionMode bool) {
	InProductionMode = productionMode
}

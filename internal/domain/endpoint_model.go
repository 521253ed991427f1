package domain

import "time"

const (
	RiskTierLow    = "low"
	RiskTierMedium = "medium"
	RiskTierHigh   = "high"
)

// Placeholders stored when enrichment could not resolve a field. The upsert
// merge treats them as "no new information".
const (
	UnknownCountry     = "Unknown"
	UnknownCountryCode = "UN"
	UnknownISP         = "Unknown ISP"
)

type Endpoint struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	IP   string `gorm:"size:45;not null;uniqueIndex:idx_endpoint_addr,priority:1" json:"ip"`
	Port uint16 `gorm:"not null;uniqueIndex:idx_endpoint_addr,priority:2" json:"port"`

	Protocol string `gorm:"size:10;not null" json:"protocol"`

	Country     string `gorm:"size:56;not null;default:''" json:"country"`
	CountryCode string `gorm:"size:2;not null;default:''" json:"country_code"`
	Region      string `gorm:"size:80;not null;default:''" json:"region"`
	City        string `gorm:"size:80;not null;default:''" json:"city"`
	ISP         string `gorm:"size:120;not null;default:''" json:"isp"`

	IsResidential bool `gorm:"not null;default:false" json:"is_residential"`
	LatencyMs     int  `gorm:"not null;default:0" json:"latency_ms"`
	PurityScore   int  `gorm:"not null;default:0" json:"purity_score"`

	SourceTrust   string    `gorm:"size:120;not null;default:''" json:"source_trust"`
	LastCheckedAt time.Time `json:"last_checked_at"`
	FirstSeenAt   time.Time `gorm:"autoCreateTime" json:"first_seen_at"`
}

// RiskTierForScore maps a purity score onto a coarse tier for consumers
// that don't want to reason about raw numbers.
func RiskTierForScore(score int) string {
	switch {
	case score >= 80:
		return RiskTierLow
	case score >= 50:
		return RiskTierMedium
	default:
		return RiskTierHigh
	}
}

func (e *Endpoint) RiskTier() string {
	return RiskTierForScore(e.PurityScore)
}

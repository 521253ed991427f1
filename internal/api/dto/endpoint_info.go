package dto

import (
	"time"

	"pureproxy/internal/domain"
)

type EndpointInfo struct {
	IP            string    `json:"ip"`
	Port          uint16    `json:"port"`
	Protocol      string    `json:"protocol"`
	Country       string    `json:"country"`
	CountryCode   string    `json:"country_code"`
	Region        string    `json:"region"`
	City          string    `json:"city"`
	ISP           string    `json:"isp"`
	IsResidential bool      `json:"is_residential"`
	LatencyMs     int       `json:"latency_ms"`
	PurityScore   int       `json:"purity_score"`
	RiskTier      string    `json:"risk_tier"`
	SourceTrust   string    `json:"source_trust"`
	LastCheckedAt time.Time `json:"last_checked_at"`
	FirstSeenAt   time.Time `json:"first_seen_at"`
}

func FromEndpoint(endpoint domain.Endpoint) EndpointInfo {
	return EndpointInfo{
		IP:            endpoint.IP,
		Port:          endpoint.Port,
		Protocol:      endpoint.Protocol,
		Country:       endpoint.Country,
		CountryCode:   endpoint.CountryCode,
		Region:        endpoint.Region,
		City:          endpoint.City,
		ISP:           endpoint.ISP,
		IsResidential: endpoint.IsResidential,
		LatencyMs:     endpoint.LatencyMs,
		PurityScore:   endpoint.PurityScore,
		RiskTier:      endpoint.RiskTier(),
		SourceTrust:   endpoint.SourceTrust,
		LastCheckedAt: endpoint.LastCheckedAt,
		FirstSeenAt:   endpoint.FirstSeenAt,
	}
}

func FromEndpoints(endpoints []domain.Endpoint) []EndpointInfo {
	infos := make([]EndpointInfo, 0, len(endpoints))
	for _, endpoint := range endpoints {
		infos = append(infos, FromEndpoint(endpoint))
	}
	return infos
}

type EndpointPage struct {
	Endpoints []EndpointInfo `json:"endpoints"`
	Total     int64          `json:"total"`
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type AnalyzeResponse struct {
	Submitted int            `json:"submitted"`
	Accepted  int            `json:"accepted"`
	Endpoints []EndpointInfo `json:"endpoints"`
}

// EndpointFilter narrows and orders read queries. Zero values mean
// "no constraint"; Residential is a pointer so false is still a filter.
type EndpointFilter struct {
	Search      string
	MinPurity   int
	Residential *bool
	CountryCode string
	SortBy      string
	Order       string
	Limit       int
}

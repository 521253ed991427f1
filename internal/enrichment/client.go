package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"pureproxy/internal/config"
	"pureproxy/internal/domain"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

const (
	defaultLookupURL     = "http://ip-api.com/json"
	defaultLookupTimeout = 5 * time.Second
	defaultMinDelay      = 200 * time.Millisecond
	defaultMaxDelay      = 1000 * time.Millisecond

	lookupResponseLimit = 16 * 1024
)

// Result carries the location and network-owner metadata for one IP. A
// failed lookup yields UnknownResult, never an error: enrichment failure
// must not drop a candidate that already passed the prober.
type Result struct {
	Country       string
	CountryCode   string
	Region        string
	City          string
	ISP           string
	IsResidential bool
}

func UnknownResult() Result {
	return Result{
		Country:     domain.UnknownCountry,
		CountryCode: domain.UnknownCountryCode,
		ISP:         domain.UnknownISP,
	}
}

type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	MinDelay   time.Duration
	MaxDelay   time.Duration

	Datacenter  []string
	Residential []string

	group singleflight.Group
}

// NewClient builds a client from the current configuration, with safe
// fallbacks for zero-valued settings.
func NewClient() *Client {
	cfg := config.GetConfig().Enrichment

	baseURL := cfg.LookupURL
	if baseURL == "" {
		baseURL = defaultLookupURL
	}

	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}

	minDelay := time.Duration(cfg.MinDelay) * time.Millisecond
	maxDelay := time.Duration(cfg.MaxDelay) * time.Millisecond
	if minDelay <= 0 || maxDelay < minDelay {
		minDelay = defaultMinDelay
		maxDelay = defaultMaxDelay
	}

	return &Client{
		HTTPClient:  &http.Client{Timeout: timeout},
		BaseURL:     baseURL,
		MinDelay:    minDelay,
		MaxDelay:    maxDelay,
		Datacenter:  cfg.DatacenterKeywords,
		Residential: cfg.ResidentialKeywords,
	}
}

type lookupResponse struct {
	Status      string `json:"status"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	RegionName  string `json:"regionName"`
	City        string `json:"city"`
	ISP         string `json:"isp"`
}

// Lookup resolves geo and owner metadata for ip. Concurrent lookups for the
// same IP are collapsed into one upstream call. The randomized inter-call
// delay keeps us inside the provider's rate limit and is part of this
// method's contract, not an optimization.
func (c *Client) Lookup(ctx context.Context, ip string) Result {
	value, _, _ := c.group.Do(ip, func() (interface{}, error) {
		return c.lookup(ctx, ip), nil
	})
	return value.(Result)
}

func (c *Client) lookup(ctx context.Context, ip string) Result {
	if !c.sleepBeforeCall(ctx) {
		return c.fallback(ip)
	}

	url := fmt.Sprintf("%s/%s?fields=status,country,countryCode,regionName,city,isp", c.BaseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return c.fallback(ip)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Debug("enrichment lookup failed", "ip", ip, "error", err)
		return c.fallback(ip)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug("enrichment lookup rejected", "ip", ip, "status", resp.StatusCode)
		return c.fallback(ip)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, lookupResponseLimit))
	if err != nil {
		return c.fallback(ip)
	}

	var payload lookupResponse
	if err := json.Unmarshal(body, &payload); err != nil || payload.Status != "success" {
		return c.fallback(ip)
	}

	return c.resultFromFields(payload.Country, payload.CountryCode, payload.RegionName, payload.City, payload.ISP)
}

// sleepBeforeCall blocks for a randomized window before the upstream call.
// Returns false when the context expired while waiting.
func (c *Client) sleepBeforeCall(ctx context.Context) bool {
	window := c.MaxDelay - c.MinDelay
	delay := c.MinDelay
	if window > 0 {
		delay += time.Duration(rand.Int63n(int64(window) + 1))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (c *Client) fallback(ip string) Result {
	if result, ok := lookupGeoLite(ip); ok {
		result.IsResidential = IsResidentialISP(result.ISP, c.Datacenter, c.Residential)
		return result
	}
	return UnknownResult()
}

func (c *Client) resultFromFields(country, countryCode, region, city, isp string) Result {
	result := UnknownResult()
	if country != "" {
		result.Country = country
	}
	if countryCode != "" {
		result.CountryCode = countryCode
	}
	result.Region = region
	result.City = city
	if isp != "" {
		result.ISP = isp
	}
	result.IsResidential = IsResidentialISP(result.ISP, c.Datacenter, c.Residential)
	return result
}

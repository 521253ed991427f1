package enrichment

import "strings"

// Keyword sets used when the configuration does not provide any. Datacenter
// keywords always take precedence over residential keywords.
var (
	defaultDatacenterKeywords = []string{
		"cloud", "data", "center", "hosting", "server", "vps", "amazon",
		"google", "microsoft", "alibaba", "digitalocean", "cloudflare",
		"oracle", "linode", "hetzner", "ovh", "tencent", "choopa",
	}
	defaultResidentialKeywords = []string{
		"cable", "dsl", "fios", "broadband", "telecom", "mobile", "verizon",
		"comcast", "at&t", "vodafone", "residential", "home", "spectrum",
		"cox", "kt corp", "hinet", "bell",
	}
)

// IsResidentialISP classifies an owner name. It is a pure function of the
// name and the two keyword sets; any hit in the datacenter set forces a
// non-residential result even when a residential keyword also matches.
func IsResidentialISP(name string, datacenterKeywords, residentialKeywords []string) bool {
	if name == "" {
		return false
	}
	if len(datacenterKeywords) == 0 {
		datacenterKeywords = defaultDatacenterKeywords
	}
	if len(residentialKeywords) == 0 {
		residentialKeywords = defaultResidentialKeywords
	}

	lower := strings.ToLower(name)

	for _, keyword := range datacenterKeywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return false
		}
	}
	for _, keyword := range residentialKeywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

package checker

import (
	"pureproxy/internal/config"
	"pureproxy/internal/domain"
)

// AcceptCandidate reports whether the candidate address is a public,
// third-party address the pipeline may probe, using the configured platform
// exclusion set.
func AcceptCandidate(candidate domain.Candidate) bool {
	return Accept(candidate, config.GetExcludedNetworks())
}

// Accept is the pure form of the ownership filter: malformed addresses,
// private/loopback/reserved ranges, and anything inside an excluded network
// are rejected. Excluded networks belong to the fronting platform itself, so
// reporting them as third-party relays would be reporting ourselves.
func Accept(candidate domain.Candidate, excluded []config.CIDR) bool {
	value, ok := config.ParseIPv4(candidate.IP)
	if !ok {
		return false
	}

	if isReserved(value) {
		return false
	}

	for _, network := range excluded {
		if network.Contains(value) {
			return false
		}
	}

	return true
}

func isReserved(ip uint32) bool {
	a := ip >> 24
	b := ip >> 16 & 0xff

	switch {
	case a == 0 || a == 10 || a == 127:
		return true
	case a == 100 && b >= 64 && b <= 127: // CGNAT
		return true
	case a == 169 && b == 254: // link-local
		return true
	case a == 172 && b >= 16 && b <= 31:
		return true
	case a == 192 && b == 168:
		return true
	case a >= 224: // multicast and above
		return true
	}

	return false
}

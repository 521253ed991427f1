package config

import (
	"errors"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// excludedNetworkSet holds the parsed CIDR blocks of the fronting platform.
var excludedNetworkSet atomic.Value

func init() {
	excludedNetworkSet.Store([]CIDR{})
}

// CIDR is an IPv4 network in network/bits form, kept as raw integers so
// membership tests are a pair of mask operations.
type CIDR struct {
	Network uint32
	Mask    uint32
}

func (c CIDR) Contains(ip uint32) bool {
	return ip&c.Mask == c.Network&c.Mask
}

// ParseIPv4 converts a dotted-quad address to its integer form. It rejects
// anything that is not exactly four octets in [0,255].
func ParseIPv4(ip string) (uint32, bool) {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return 0, false
	}

	var value uint32
	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return 0, false
		}
		octet, err := strconv.Atoi(part)
		if err != nil || octet < 0 || octet > 255 {
			return 0, false
		}
		value = value<<8 | uint32(octet)
	}
	return value, true
}

// ParseCIDR parses "a.b.c.d/bits" where bits is in [0,32].
func ParseCIDR(cidr string) (CIDR, error) {
	network, bitsPart, found := strings.Cut(cidr, "/")
	if !found {
		return CIDR{}, errors.New("config: cidr missing prefix length")
	}

	address, ok := ParseIPv4(strings.TrimSpace(network))
	if !ok {
		return CIDR{}, errors.New("config: invalid cidr network address")
	}

	bits, err := strconv.Atoi(strings.TrimSpace(bitsPart))
	if err != nil || bits < 0 || bits > 32 {
		return CIDR{}, errors.New("config: invalid cidr prefix length")
	}

	var mask uint32
	if bits > 0 {
		mask = ^uint32(0) << (32 - bits)
	}

	return CIDR{Network: address, Mask: mask}, nil
}

// GetExcludedNetworks returns the current parsed exclusion set.
func GetExcludedNetworks() []CIDR {
	return excludedNetworkSet.Load().([]CIDR)
}

func updateExcludedNetworks(entries []string) {
	networks := make([]CIDR, 0, len(entries))
	for _, entry := range entries {
		parsed, err := ParseCIDR(entry)
		if err != nil {
			log.Warn("Skipping invalid excluded CIDR", "cidr", entry, "error", err)
			continue
		}
		networks = append(networks, parsed)
	}
	excludedNetworkSet.Store(networks)
}

package support

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"

	"pureproxy/internal/domain"
)

var (
	candidatePattern = regexp.MustCompile(`(?:\d{1,3}\.){3}\d{1,3}(?::\d{1,5})?`)
	base64Alphabet   = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)
)

// ExtractCandidates scans raw source text for ip[:port] tokens and returns
// them deduplicated by value. Tokens without a port get defaultPort. Some
// sources ship base64-encoded bodies, and a few mix encoded and plain
// content, so a decodable blob is scanned in both forms. A result with zero
// candidates is a valid outcome, not an error.
func ExtractCandidates(text string, defaultPort uint16) []domain.Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	scan := text
	if decoded, ok := tryDecodeBase64(text); ok {
		scan = decoded + "\n" + text
	}

	seen := make(map[domain.Candidate]struct{})
	candidates := make([]domain.Candidate, 0)

	for _, token := range candidatePattern.FindAllString(scan, -1) {
		candidate, ok := parseCandidate(token, defaultPort)
		if !ok {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		candidates = append(candidates, candidate)
	}

	return candidates
}

func tryDecodeBase64(text string) (string, bool) {
	clean := strings.Join(strings.Fields(text), "")
	if len(clean) <= 20 || len(clean)%4 != 0 {
		return "", false
	}
	if !base64Alphabet.MatchString(clean) {
		return "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

func parseCandidate(token string, defaultPort uint16) (domain.Candidate, bool) {
	host := token
	port := int(defaultPort)

	if ip, portPart, found := strings.Cut(token, ":"); found {
		host = ip
		parsed, err := strconv.Atoi(portPart)
		if err != nil {
			return domain.Candidate{}, false
		}
		port = parsed
	}

	if port < 1 || port > 65535 {
		return domain.Candidate{}, false
	}

	for _, octet := range strings.Split(host, ".") {
		value, err := strconv.Atoi(octet)
		if err != nil || value > 255 {
			return domain.Candidate{}, false
		}
	}

	return domain.Candidate{IP: host, Port: uint16(port)}, true
}

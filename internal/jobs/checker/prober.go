package checker

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"pureproxy/internal/config"
	"pureproxy/internal/domain"
)

const (
	probeReadLimit = 4096

	defaultConnectTimeout = 2 * time.Second
	defaultReadTimeout    = 3 * time.Second
	defaultProbeHost      = "speed.cloudflare.com"
	defaultProbeMarker    = "cloudflare"
)

// ErrNotRelay is the single rejection signal of the prober. Timeouts,
// refusals and marker mismatches all collapse into it; callers only need to
// know the candidate is not a usable relay.
var ErrNotRelay = errors.New("not a usable relay")

type ProbeOptions struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	TargetHost     string
	Marker         string
}

func DefaultProbeOptions() ProbeOptions {
	cfg := config.GetConfig().Checker

	opts := ProbeOptions{
		ConnectTimeout: time.Duration(cfg.ConnectTimeout) * time.Millisecond,
		ReadTimeout:    time.Duration(cfg.ReadTimeout) * time.Millisecond,
		TargetHost:     cfg.ProbeHost,
		Marker:         cfg.ProbeMarker,
	}

	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = defaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.TargetHost == "" {
		opts.TargetHost = defaultProbeHost
	}
	if opts.Marker == "" {
		opts.Marker = defaultProbeMarker
	}

	return opts
}

// Probe opens a TCP connection to the candidate and writes one fixed HTTP
// request addressed to the probe target host. A candidate that actually
// relays traffic toward that host answers with the marker token in its
// response headers. Latency is measured from dial start to marker
// confirmation. The connection is released on every exit path.
func Probe(candidate domain.Candidate, opts ProbeOptions) (int, error) {
	start := time.Now()

	conn, err := net.DialTimeout("tcp", candidate.Addr(), opts.ConnectTimeout)
	if err != nil {
		return 0, ErrNotRelay
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(opts.ReadTimeout)); err != nil {
		return 0, ErrNotRelay
	}

	request := fmt.Sprintf(
		"GET / HTTP/1.1\r\nHost: %s\r\nUser-Agent: Mozilla/5.0\r\nConnection: close\r\n\r\n",
		opts.TargetHost,
	)
	if _, err := conn.Write([]byte(request)); err != nil {
		return 0, ErrNotRelay
	}

	buf := make([]byte, probeReadLimit)
	n, err := conn.Read(buf)
	if n == 0 && err != nil {
		return 0, ErrNotRelay
	}

	response := strings.ToLower(string(buf[:n]))
	if !strings.Contains(response, strings.ToLower(opts.Marker)) {
		return 0, ErrNotRelay
	}

	return int(time.Since(start).Milliseconds()), nil
}

// ProtocolForPort labels the likely transport based on well-known TLS
// fronting ports; everything else is assumed plain.
func ProtocolForPort(port uint16) string {
	switch port {
	case 443, 2053, 2083, 2087, 2096, 8443:
		return "https"
	default:
		return "http"
	}
}

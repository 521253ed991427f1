package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"pureproxy/internal/config"
	"pureproxy/internal/domain"
	"pureproxy/internal/support"
)

const (
	fetchTimeout   = 30 * time.Second
	sourceByteCap  = 8 << 20
	fetchUserAgent = "Mozilla/5.0"
)

// FetchSource downloads one source list and extracts its candidates. A
// cache-busting query parameter is appended because popular raw-file hosts
// serve stale copies aggressively.
func FetchSource(ctx context.Context, source config.Source) ([]domain.Candidate, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	url := fmt.Sprintf("%s?t=%d", source.URL, time.Now().Unix())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("source fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, sourceByteCap))
	if err != nil {
		return nil, err
	}

	defaultPort := config.GetConfig().Checker.DefaultPort
	return support.ExtractCandidates(string(body), defaultPort), nil
}

package importer

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pureproxy/internal/config"
)

func TestFetchSourceExtractsCandidates(t *testing.T) {
	var requestedURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedURL = r.URL.String()
		fmt.Fprint(w, "1.2.3.4:443\n5.6.7.8:2053\n")
	}))
	t.Cleanup(server.Close)

	candidates, err := FetchSource(context.Background(), config.Source{
		Name: "test-list",
		URL:  server.URL + "/list.txt",
	})
	if err != nil {
		t.Fatalf("FetchSource: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(candidates))
	}
	if requestedURL == "/list.txt" {
		t.Error("cache-busting parameter missing from request")
	}
}

func TestFetchSourceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	if _, err := FetchSource(context.Background(), config.Source{URL: server.URL}); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetchSourceUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	if _, err := FetchSource(context.Background(), config.Source{URL: url}); err == nil {
		t.Fatal("expected error for unreachable source")
	}
}

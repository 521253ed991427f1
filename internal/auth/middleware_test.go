package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func protectedHandler() http.Handler {
	return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireAuthOpenWithoutSecret(t *testing.T) {
	t.Setenv(secretEnv, "")

	req := httptest.NewRequest(http.MethodGet, "/api/proxies", nil)
	recorder := httptest.NewRecorder()
	protectedHandler().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when no secret is configured", recorder.Code)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	t.Setenv(secretEnv, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/api/proxies", nil)
	recorder := httptest.NewRecorder()
	protectedHandler().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestRequireAuthAcceptsIssuedToken(t *testing.T) {
	t.Setenv(secretEnv, "test-secret")

	token, err := IssueToken("operator", time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/proxies", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	protectedHandler().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	t.Setenv(secretEnv, "test-secret")

	token, err := IssueToken("operator", -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/proxies", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	protectedHandler().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

func TestRequireAuthRejectsWrongSecret(t *testing.T) {
	t.Setenv(secretEnv, "other-secret")
	token, err := IssueToken("operator", time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	t.Setenv(secretEnv, "test-secret")
	req := httptest.NewRequest(http.MethodGet, "/api/proxies", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()
	protectedHandler().ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}

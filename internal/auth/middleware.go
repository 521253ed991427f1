package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pureproxy/internal/support"

	"github.com/golang-jwt/jwt/v5"
)

const secretEnv = "API_JWT_SECRET"

// RequireAuth guards a handler with a bearer token check. When no secret is
// configured the API runs open, which is the single-operator default.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if signingSecret() == "" {
			next.ServeHTTP(w, r)
			return
		}

		if _, err := extractClaims(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractClaims(r *http.Request) (jwt.MapClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.New("missing or malformed Authorization header")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return ValidateJWT(token)
}

func ValidateJWT(tokenString string) (jwt.MapClaims, error) {
	secret := signingSecret()
	if secret == "" {
		return nil, errors.New("no signing secret configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func IssueToken(subject string, ttl time.Duration) (string, error) {
	secret := signingSecret()
	if secret == "" {
		return "", errors.New("no signing secret configured")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

func signingSecret() string {
	return support.GetEnv(secretEnv, "")
}

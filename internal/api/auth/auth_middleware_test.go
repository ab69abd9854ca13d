package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func signToken(t *testing.T, secret string, claims *types.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims() *types.Claims {
	now := time.Now()
	return &types.Claims{
		UserID: "user-1",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "trip-planner",
			Audience:  jwt.ClaimStrings{"trip-planner-web"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
}

func TestAuthenticate(t *testing.T) {
	cfg := testConfig().JWT
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Authenticate(testLogger(), cfg)(next)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"mobile"}
	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + signToken(t, cfg.SecretKey, validClaims()), http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad signature", "Bearer " + signToken(t, "other-secret", validClaims()), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, cfg.SecretKey, expired), http.StatusUnauthorized},
		{"no expiry", "Bearer " + signToken(t, cfg.SecretKey, noExpiry), http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + signToken(t, cfg.SecretKey, wrongIssuer), http.StatusUnauthorized},
		{"wrong audience", "Bearer " + signToken(t, cfg.SecretKey, wrongAudience), http.StatusUnauthorized},
		{"malformed", "Bearer not.a.jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/trips", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "user-1", gotUserID)
			} else {
				assert.Empty(t, gotUserID)
			}
		})
	}
}

func TestAuthenticate_PanicsWithoutSecret(t *testing.T) {
	cfg := testConfig().JWT
	cfg.SecretKey = ""
	assert.Panics(t, func() {
		Authenticate(testLogger(), cfg)
	})
}

package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/pkg/httpcontext"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func run(t *testing.T, authHeader string, extra func(*fasthttp.RequestCtx)) (*fasthttp.RequestCtx, string) {
	t.Helper()
	var seen string
	handler := JWTAuth(secret, "workflow-engine", nil)(func(ctx *fasthttp.RequestCtx) {
		seen = httpcontext.CallerID(ctx)
		ctx.SetStatusCode(http.StatusOK)
	})

	var rc fasthttp.RequestCtx
	if authHeader != "" {
		rc.Request.Header.Set("Authorization", authHeader)
	}
	if extra != nil {
		extra(&rc)
	}
	handler(&rc)
	return &rc, seen
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"user_id": "alice",
		"iss":     "workflow-engine",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	rc, seen := run(t, "Bearer "+token, nil)
	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Equal(t, "alice", seen)
}

func TestJWTAuthFallsBackToSubject(t *testing.T) {
	token := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "bob", "iss": "workflow-engine"})
	_, seen := run(t, "Bearer "+token, nil)
	assert.Equal(t, "bob", seen)
}

func TestJWTAuthRejections(t *testing.T) {
	expired := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"user_id": "alice",
		"iss":     "workflow-engine",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": "alice", "iss": "workflow-engine"})
	wrongIssuer := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"user_id": "alice", "iss": "someone-else"})
	noUser := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"iss": "workflow-engine"})

	tests := map[string]string{
		"missing":      "",
		"expired":      "Bearer " + expired,
		"wrong key":    "Bearer " + wrongKey,
		"wrong issuer": "Bearer " + wrongIssuer,
		"no user":      "Bearer " + noUser,
		"garbage":      "Bearer not-a-token",
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			rc, seen := run(t, header, nil)
			assert.Equal(t, http.StatusUnauthorized, rc.Response.StatusCode())
			assert.Empty(t, seen)
			assert.Contains(t, string(rc.Response.Body()), "UNAUTHORIZED")
		})
	}
}

func TestJWTAuthDropsForgedCallerHeader(t *testing.T) {
	rc, seen := run(t, "", func(rc *fasthttp.RequestCtx) {
		rc.Request.Header.Set(httpcontext.CallerHeader, "mallory")
	})
	assert.Equal(t, http.StatusUnauthorized, rc.Response.StatusCode())
	assert.Empty(t, seen)
	assert.Empty(t, httpcontext.CallerID(rc))
}

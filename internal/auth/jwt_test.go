package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerify_ValidToken(t *testing.T) {
	v := NewVerifier("topsecret")
	sub, err := v.Verify(signToken(t, "topsecret", "admin"))
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewVerifier("topsecret")
	_, err := v.Verify(signToken(t, "other", "admin"))
	assert.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("topsecret"))
	require.NoError(t, err)

	_, err = NewVerifier("topsecret").Verify(signed)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier("topsecret")
	var gotSubject string
	h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = Subject(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	// no header
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/admin/posts", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// malformed header
	req := httptest.NewRequest("GET", "/api/admin/posts", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// valid token
	req = httptest.NewRequest("GET", "/api/admin/posts", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "topsecret", "admin"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "admin", gotSubject)
}

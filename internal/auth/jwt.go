// Package auth guards the admin API. The dashboard signs in against the
// managed backend; the session JWT it receives is verified here with the
// shared HS256 secret, so the mutation actions stay a trusted entry point.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkwell-hq/inkwell/internal/api/respond"
)

type contextKey string

const subjectKey contextKey = "auth.subject"

// Subject returns the authenticated subject stored by Middleware, if any.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey).(string)
	return s, ok
}

// Verifier validates admin session tokens.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier over the shared HS256 secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates token, returning its subject claim.
func (v *Verifier) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// Middleware rejects requests without a valid bearer session token.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := ExtractBearerToken(r)
		if err != nil {
			respond.WriteUnauthorized(w, err.Error())
			return
		}
		sub, err := v.Verify(tok)
		if err != nil {
			respond.WriteUnauthorized(w, "invalid session token")
			return
		}
		ctx := context.WithValue(r.Context(), subjectKey, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

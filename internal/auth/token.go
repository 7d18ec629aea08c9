// Package auth checks the static API token presented by gRPC and HTTP callers.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

// BearerScheme prefixes the token in an Authorization value
const BearerScheme = "Bearer "

var (
	// ErrMissingToken is returned when no Authorization value was sent
	ErrMissingToken = errors.New("missing authorization header")

	// ErrInvalidToken is returned when the presented token does not match
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier matches presented tokens against the configured API token
type Verifier struct {
	token         string
	requireScheme bool
}

// NewVerifier accepts "Bearer <token>" and, unless requireScheme is set, the bare token
func NewVerifier(token string, requireScheme bool) *Verifier {
	return &Verifier{token: token, requireScheme: requireScheme}
}

// Verify checks one Authorization value. An empty configured token matches nothing.
func (v *Verifier) Verify(header string) error {
	if header == "" {
		return ErrMissingToken
	}

	presented, hasScheme := strings.CutPrefix(header, BearerScheme)
	if v.requireScheme && !hasScheme {
		return ErrInvalidToken
	}
	if v.token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(v.token)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

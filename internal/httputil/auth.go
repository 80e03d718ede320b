// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across the migration.
package httputil

import (
	"net/http"
	"time"
)

// TokenTransport attaches "Authorization: Token <token>" to every request,
// the scheme paperless-ngx expects for API tokens, and sets the User-Agent
// when one is configured. The wrapped base transport defaults to
// http.DefaultTransport.
type TokenTransport struct {
	Token     string
	UserAgent string
	Base      http.RoundTripper
}

// RoundTrip implements http.RoundTripper. The request is cloned before the
// headers are set, per the RoundTripper contract.
func (t *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Token "+t.Token)
	if t.UserAgent != "" {
		clone.Header.Set("User-Agent", t.UserAgent)
	}
	return base.RoundTrip(clone)
}

// NewClient returns an HTTP client that authenticates with the given token
// and identifies itself with userAgent on every request.
func NewClient(token, userAgent string, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &TokenTransport{Token: token, UserAgent: userAgent},
	}
}

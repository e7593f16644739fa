package testutil

import (
	"net/http"
	"time"

	"classdesk/pkg/domain"
	"classdesk/pkg/requestcontext"
)

// WithPrincipal adds an authenticated principal to the request context,
// simulating what the auth middleware does for verified tokens.
func WithPrincipal(req *http.Request, p domain.Principal) *http.Request {
	return req.WithContext(requestcontext.WithPrincipal(req.Context(), p))
}

// WithRequestTime pins the request time, so handlers that compose
// time-dependent views stay deterministic in tests.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID adds a request id to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

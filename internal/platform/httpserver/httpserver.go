package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Dashboard reads are small cached JSON payloads
// and record writes are single-row upserts, so request timeouts stay tight; a
// request running longer than this is stuck, not working.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

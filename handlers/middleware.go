package handlers

import (
	"context"
	"net"
	"net/http"

	"github.com/umakantv/go-utils/httpserver"
	"go.uber.org/zap"
)

// RateLimited wraps a handler with the fixed-window admission check. The
// counter is keyed by (client address, endpoint), so hammering one endpoint
// does not lock a client out of the others.
func (h *AuthHandler) RateLimited(endpoint string, next httpserver.HandlerFunc) httpserver.HandlerFunc {
	return httpserver.HandlerFunc(func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)
		if !h.limiter.Allow(client, endpoint) {
			logRequest(ctx, "info", "Rate limit exceeded", zap.String("client", client), zap.String("endpoint", endpoint))
			respondError(w, http.StatusTooManyRequests, "Too many requests. Please try again later")
			return
		}
		next(ctx, w, r)
	})
}

// clientKey identifies the client for rate limiting by its remote address,
// without the ephemeral port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

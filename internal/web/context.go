package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/distsort/internal/core"
	"github.com/JonMunkholm/distsort/internal/logging"
)

// WithRequestMetadata adds client IP, User-Agent and the session id to
// context for upload logging.
func WithRequestMetadata(ctx context.Context, r *http.Request, sess *core.Session) context.Context {
	ctx = core.ContextWithClientIP(ctx, clientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	if sess != nil {
		ctx = logging.WithSessionID(ctx, sess.ID)
	}
	return ctx
}

// clientIP returns the host part of RemoteAddr, already rewritten by
// TrustedRealIP when the request came through a trusted proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

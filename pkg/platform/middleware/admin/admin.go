// Package admin guards operator endpoints with a shared token.
package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"uniagendas/pkg/requestcontext"
)

const (
	HeaderToken   = "X-Admin-Token"
	HeaderActorID = "X-Admin-Actor-ID"
)

type contextKeyActorID struct{}

// ContextKeyActorID is exported for tests that seed the context directly.
var ContextKeyActorID = contextKeyActorID{}

// ActorID returns the operator named by X-Admin-Actor-ID, or "" outside an
// admin request.
func ActorID(ctx context.Context) string {
	if actorID, ok := ctx.Value(ContextKeyActorID).(string); ok {
		return actorID
	}
	return ""
}

// RequireToken rejects requests whose X-Admin-Token differs from expected.
// An empty expected token rejects every request.
func RequireToken(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := r.Header.Get(HeaderToken)
			if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}

			if actorID := r.Header.Get(HeaderActorID); actorID != "" {
				ctx = context.WithValue(ctx, ContextKeyActorID, actorID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

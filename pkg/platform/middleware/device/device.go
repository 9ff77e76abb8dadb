// Package device names the client software behind a request ("Chrome on
// Android") so audit events show where a booking was made from.
package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"uniagendas/pkg/requestcontext"
)

const Unknown = "unknown"

// Name renders a User-Agent as "Browser on OS". Mobile clients report their
// platform instead of the full OS string.
func Name(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return Unknown
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return "bot"
	}

	browser, _ := ua.Browser()
	os := ua.OS()
	if ua.Mobile() && ua.Platform() != "" {
		os = ua.Platform()
	}
	switch {
	case browser == "" && os == "":
		return Unknown
	case browser == "":
		return os
	case os == "":
		return browser
	}
	return browser + " on " + os
}

// Middleware stores the device name for the User-Agent already captured by
// the metadata middleware, which must run first.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ua := requestcontext.UserAgent(ctx); ua != "" {
			ctx = requestcontext.WithDevice(ctx, Name(ua))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

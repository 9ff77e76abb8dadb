package device

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"uniagendas/pkg/requestcontext"
)

const (
	chromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	safariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	googlebot     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestName(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"desktop browser", chromeWindows, "Chrome on Windows 10"},
		{"mobile reports platform", safariIPhone, "Safari on iPhone"},
		{"crawler", googlebot, "bot"},
		{"empty", "  ", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.ua))
		})
	}
}

func TestMiddleware(t *testing.T) {
	var got string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.Device(r.Context())
	}))

	t.Run("names the client from context metadata", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), "203.0.113.7", chromeWindows))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, "Chrome on Windows 10", got)
	})

	t.Run("no user agent leaves device empty", func(t *testing.T) {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/appointments", nil))
		assert.Empty(t, got)
	})
}

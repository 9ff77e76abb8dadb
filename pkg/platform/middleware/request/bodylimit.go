package request

import (
	"net/http"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/platform/httputil"
)

// BodyLimit answers 413 up front when the declared Content-Length is over
// maxBytes, and caps the reader for chunked or lying clients.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				httputil.WriteError(w, dErrors.Newf(dErrors.CodePayloadTooLarge, "request body exceeds %d bytes", maxBytes))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

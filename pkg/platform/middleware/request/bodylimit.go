package request

import (
	"net/http"

	"labcheckout/pkg/platform/httputil"
)

// BodyLimit caps request bodies at maxBytes. Requests that declare a larger
// Content-Length are refused with 413 up front; bodies that lie about their
// length fail on read via http.MaxBytesReader.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				httputil.WriteJSON(w, http.StatusRequestEntityTooLarge, httputil.ErrorResponse{
					Error:       "request_too_large",
					Description: "request body too large",
				})
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

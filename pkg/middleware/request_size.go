package middleware

import (
	"net/http"

	apperrors "hotelledger/pkg/errors"
	httputil "hotelledger/pkg/http"
)

// MaxRequestSize caps request bodies at limit bytes. Oversized bodies with a
// declared length are rejected up front; the rest fail on read.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = httputil.WriteError(w, apperrors.New(
					apperrors.CodeInvalidInput,
					"Request body too large",
					http.StatusRequestEntityTooLarge,
				).WithDetails(map[string]any{"max_bytes": limit}))
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

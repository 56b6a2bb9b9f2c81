package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/httputil"
)

// Recovery turns handler panics into problem+json 500 responses instead of
// dropped connections. It sits outside Auth in the chain so a panicking
// token verification is covered too; the log entry records the caller so a
// crash can be tied back to a dashboard session.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"method", r.Method,
						"remote_addr", r.RemoteAddr,
						"user_agent", r.UserAgent(),
						"stack", string(debug.Stack()),
					)

					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/auth"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/httputil"
)

type claimsContextKey string

const claimsKey claimsContextKey = "supabase_claims"

// Auth validates the bearer token on /api routes and stores the claims in
// the request context. Requests outside /api (health checks) pass through.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified claims of the request, if any.
func ClaimsFromContext(ctx context.Context) (*models.SupabaseClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*models.SupabaseClaims)
	return claims, ok
}

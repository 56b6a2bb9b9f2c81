package auth

import "github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"

// JWTVerifier validates bearer tokens at the HTTP boundary. Abstracted so
// the middleware stays agnostic to where the signing keys come from.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

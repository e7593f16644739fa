package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"classdesk/pkg/domain"
	"classdesk/pkg/requestcontext"
)

// PrincipalVerifier turns a bearer token into a verified principal.
// The core never authenticates beyond this; credential storage and session
// mechanics live upstream.
type PrincipalVerifier interface {
	Verify(tokenString string) (domain.Principal, error)
}

// JWTVerifier validates HMAC-signed tokens carrying sub/role/tenant claims.
type JWTVerifier struct {
	signingKey []byte
}

// NewJWTVerifier constructs a verifier for the shared signing key.
func NewJWTVerifier(signingKey string) *JWTVerifier {
	return &JWTVerifier{signingKey: []byte(signingKey)}
}

type principalClaims struct {
	Role   string `json:"role"`
	Tenant string `json:"tenant"`
	jwt.RegisteredClaims
}

// Verify parses and validates the token, returning the embedded principal.
func (v *JWTVerifier) Verify(tokenString string) (domain.Principal, error) {
	var claims principalClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return domain.Principal{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return domain.Principal{}, fmt.Errorf("token is not valid")
	}

	userID, err := domain.ParseUserID(claims.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("sub claim: %w", err)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("role claim: %w", err)
	}
	tenantID, err := domain.ParseTenantID(claims.Tenant)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("tenant claim: %w", err)
	}

	return domain.Principal{UserID: userID, Role: role, TenantID: tenantID}, nil
}

// RequireAuth rejects requests without a valid bearer token and injects the
// verified principal into the request context.
func RequireAuth(verifier PrincipalVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithPrincipal(ctx, principal)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}

package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classdesk/pkg/domain"
	"classdesk/pkg/requestcontext"
)

const testSigningKey = "test-signing-key-for-unit-tests"

func signToken(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func validClaims(userID uuid.UUID, role string, tenantID uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":    userID.String(),
		"role":   role,
		"tenant": tenantID.String(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
}

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier(testSigningKey)
	userID := uuid.New()
	tenantID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		principal, err := v.Verify(signToken(t, testSigningKey, validClaims(userID, "teacher", tenantID)))
		require.NoError(t, err)
		assert.Equal(t, domain.UserID(userID), principal.UserID)
		assert.Equal(t, domain.RoleTeacher, principal.Role)
		assert.Equal(t, domain.TenantID(tenantID), principal.TenantID)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := v.Verify(signToken(t, "some-other-key", validClaims(userID, "teacher", tenantID)))
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims(userID, "teacher", tenantID)
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		_, err := v.Verify(signToken(t, testSigningKey, claims))
		assert.Error(t, err)
	})

	t.Run("unknown role claim", func(t *testing.T) {
		_, err := v.Verify(signToken(t, testSigningKey, validClaims(userID, "superuser", tenantID)))
		assert.Error(t, err)
	})

	t.Run("missing tenant claim", func(t *testing.T) {
		claims := validClaims(userID, "admin", tenantID)
		delete(claims, "tenant")
		_, err := v.Verify(signToken(t, testSigningKey, claims))
		assert.Error(t, err)
	})

	t.Run("unsigned token rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(userID, "teacher", tenantID))
		unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = v.Verify(unsigned)
		assert.Error(t, err)
	})
}

func TestRequireAuth(t *testing.T) {
	v := NewJWTVerifier(testSigningKey)
	userID := uuid.New()
	tenantID := uuid.New()

	var seen domain.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Principal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := RequireAuth(v, slog.Default())(next)

	t.Run("valid bearer token passes principal through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSigningKey, validClaims(userID, "admin", tenantID)))
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.UserID(userID), seen.UserID)
		assert.Equal(t, domain.RoleAdmin, seen.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rr := httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequestID(t *testing.T) {
	var captured string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = requestcontext.RequestID(r.Context())
	})
	h := RequestID(next)

	t.Run("honors inbound header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, "req-123", captured)
		assert.Equal(t, "req-123", rr.Header().Get("X-Request-ID"))
	})

	t.Run("generates one when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.NotEmpty(t, captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
	})
}

func TestRequestTime(t *testing.T) {
	var captured time.Time
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = requestcontext.Now(r.Context())
	})
	before := time.Now().UTC()
	RequestTime(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	after := time.Now().UTC()

	assert.False(t, captured.Before(before))
	assert.False(t, captured.After(after))
}

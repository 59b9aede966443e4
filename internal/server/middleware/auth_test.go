package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-shop-api/internal/server/middleware"
)

const testKey = "supersecretkeysupersecretkey123456"

// Вспомогательная функция для JWT
func makeToken(t *testing.T, key, iss, aud string, id crypto.Identity, ttl time.Duration) string {
	t.Helper()

	s, err := crypto.NewAccessToken(id, crypto.JWTConfig{
		Issuer: iss, Audience: aud, SigningKey: key, AccessTTL: ttl,
	})
	require.NoError(t, err)
	return s
}

func run(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// Успех
func TestAuthMiddleware_OK(t *testing.T) {
	v := middleware.NewJWTVerifier(testKey, "issuer", "aud")
	id := crypto.Identity{UserID: uuid.New(), Role: "admin"}

	called := false
	handler := v.AuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true

		uid, ok := middleware.UserIDFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, id.UserID, uid)

		got, ok := middleware.IdentityFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "admin", got.Role)
	}))

	rr := run(handler, makeToken(t, testKey, "issuer", "aud", id, time.Minute))
	require.True(t, called)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	v := middleware.NewJWTVerifier(testKey, "issuer", "aud")
	id := crypto.Identity{UserID: uuid.New(), Role: "customer"}

	tests := []struct {
		name  string
		token string
		msg   string
	}{
		{"missing", "", "missing bearer token"},
		{"garbage", "not-a-jwt", "invalid token"},
		{"wrong key", makeToken(t, "another-key-another-key-another-key", "issuer", "aud", id, time.Minute), "invalid token"},
		{"wrong issuer", makeToken(t, testKey, "evil", "aud", id, time.Minute), "invalid token"},
		{"wrong audience", makeToken(t, testKey, "issuer", "other", id, time.Minute), "invalid token"},
		{"expired", makeToken(t, testKey, "issuer", "aud", id, -time.Minute), "token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := v.AuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not be called")
			}))

			rr := run(handler, tt.token)
			require.Equal(t, http.StatusUnauthorized, rr.Code)
			require.JSONEq(t, `{"error":"`+tt.msg+`"}`, rr.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	gate := middleware.RequireRole("admin")(ok)

	// без identity
	rr := httptest.NewRecorder()
	gate.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/products", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// чужая роль
	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), crypto.Identity{UserID: uuid.New(), Role: "customer"}))
	rr = httptest.NewRecorder()
	gate.ServeHTTP(rr, req)
	require.Equal(t, http.StatusForbidden, rr.Code)

	// admin
	req = httptest.NewRequest(http.MethodPost, "/products", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), crypto.Identity{UserID: uuid.New(), Role: "admin"}))
	rr = httptest.NewRecorder()
	gate.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestExtractBearer(t *testing.T) {
	require.Equal(t, "abc", middleware.ExtractBearer("Bearer abc"))
	require.Equal(t, "abc", middleware.ExtractBearer("  bearer   abc "))
	require.Empty(t, middleware.ExtractBearer("Basic abc"))
	require.Empty(t, middleware.ExtractBearer("Bearer"))
	require.Empty(t, middleware.ExtractBearer(""))
}

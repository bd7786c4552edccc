package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rogerio-castellano/storefront/internal/auth"
	rl "github.com/rogerio-castellano/storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func bearer(t *testing.T, u models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(u)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthAndRole(t *testing.T) {
	h := AuthMiddleware(RequireRole("admin")(okHandler))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"plain user", bearer(t, models.User{ID: 2, Role: "user"}), http.StatusForbidden},
		{"admin", bearer(t, models.User{ID: 1, Role: "admin"}), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthMiddleware_PutsClaimsInContext(t *testing.T) {
	var got auth.Claims
	h := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, models.User{ID: 5, Username: "bo", Role: "user"}))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 5, got.UserID)
	assert.Equal(t, "bo", got.Username)
}

func TestRateLimitMiddleware(t *testing.T) {
	rl.CleanupAllVisitors()
	rl.Configure(1, 2)
	t.Cleanup(func() {
		rl.Configure(10, 20)
		rl.CleanupAllVisitors()
	})

	h := RateLimitMiddleware(okHandler)
	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestID(RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc-123", fields["request_id"])
	assert.Equal(t, "/cart", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestRequestID_Generated(t *testing.T) {
	w := httptest.NewRecorder()
	RequestID(okHandler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

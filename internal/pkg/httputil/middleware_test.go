package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bissquit/userdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockValidator implements TokenValidator for testing.
type mockValidator struct {
	tokens   map[string]domain.Identity
	received string
}

func (m *mockValidator) ValidateToken(_ context.Context, token string) (domain.Identity, error) {
	m.received = token
	if identity, ok := m.tokens[token]; ok {
		return identity, nil
	}
	return domain.Identity{}, errors.New("token is expired")
}

func newMockValidator() *mockValidator {
	return &mockValidator{
		tokens: map[string]domain.Identity{
			"admin-token": {ID: "1", Email: "admin@example.com", Type: domain.RoleAdmin},
			"user-token":  {ID: "2", Email: "user@example.com", Type: domain.RoleUser},
		},
	}
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func protectedHandler(identity *domain.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := GetIdentity(r.Context()); ok {
			*identity = id
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		header        string
		wantStatus    int
		wantMessage   string
		wantValidated string
	}{
		{"missing header", "", http.StatusUnauthorized, MsgNoToken, ""},
		{"scheme only", "Bearer", http.StatusUnauthorized, MsgInvalidFormat, ""},
		{"empty token", "Bearer   ", http.StatusUnauthorized, MsgInvalidFormat, ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, MsgInvalidFormat, ""},
		{"invalid token", "Bearer garbage", http.StatusUnauthorized, MsgInvalidToken, "garbage"},
		{"valid token", "Bearer user-token", http.StatusNoContent, "", "user-token"},
		{"lowercase scheme", "bearer admin-token", http.StatusNoContent, "", "admin-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := newMockValidator()
			var identity domain.Identity
			handler := AuthMiddleware(validator)(protectedHandler(&identity))

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantValidated, validator.received)
			if tt.wantMessage != "" {
				body := decodeError(t, rec)
				assert.False(t, body.Success)
				assert.Equal(t, tt.wantMessage, body.Message)
			}
		})
	}
}

func TestAuthMiddleware_AttachesIdentity(t *testing.T) {
	var identity domain.Identity
	handler := AuthMiddleware(newMockValidator())(protectedHandler(&identity))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, domain.Identity{ID: "1", Email: "admin@example.com", Type: domain.RoleAdmin}, identity)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"admin passes", "admin-token", http.StatusNoContent},
		{"user denied", "user-token", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var identity domain.Identity
			handler := AuthMiddleware(newMockValidator())(
				RequireRole(domain.RoleAdmin)(protectedHandler(&identity)),
			)

			req := httptest.NewRequest(http.MethodPost, "/users", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusForbidden {
				assert.Equal(t, "access denied: admin required", decodeError(t, rec).Message)
			}
		})
	}
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	var identity domain.Identity
	handler := RequireRole(domain.RoleAdmin)(protectedHandler(&identity))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/1", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORSMiddleware([]string{"http://localhost:3000"})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	t.Run("preflight from allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestHandleError(t *testing.T) {
	errMissing := errors.New("user not found")
	mappings := []ErrorMapping{{Error: errMissing, Status: http.StatusNotFound}}

	t.Run("mapped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(context.Background(), rec, errMissing, mappings)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "user not found", decodeError(t, rec).Message)
	})

	t.Run("unmapped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleError(context.Background(), rec, errors.New("boom"), mappings)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal error", decodeError(t, rec).Message)
	})
}

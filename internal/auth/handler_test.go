package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/grafica-erp/grafica-erp/internal/platform/httpx"
	"github.com/grafica-erp/grafica-erp/internal/users"
)

type stubAuthenticator struct {
	user *users.User
	hash string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	if s.user == nil || email != s.user.Email {
		return nil, httpx.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.hash), []byte(password)); err != nil {
		return nil, httpx.ErrUnauthorized
	}
	return s.user, nil
}

func newTestHandler(t *testing.T) (*Handler, *Manager) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3nh4forte"), bcrypt.MinCost)
	require.NoError(t, err)

	stub := &stubAuthenticator{
		user: &users.User{ID: "u1", Name: "Ana", Email: "ana@grafica.com", Role: users.RoleAdmin},
		hash: string(hash),
	}
	manager := NewManager("test-secret", time.Hour)
	return NewHandler(slog.Default(), stub, manager), manager
}

func postLogin(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	h, manager := newTestHandler(t)

	rec := postLogin(h, `{"email":"ana@grafica.com","password":"s3nh4forte"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"token"`)
	require.Contains(t, rec.Body.String(), `"ana@grafica.com"`)
	// The hash never leaves the server.
	require.NotContains(t, rec.Body.String(), "passwordHash")

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := manager.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.Subject)
	require.Equal(t, "admin", claims.Role)
}

func TestLoginMissingFields(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postLogin(h, `{"email":"ana@grafica.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postLogin(h, `{"password":"s3nh4forte"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginBadPassword(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := postLogin(h, `{"email":"ana@grafica.com","password":"errada"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postLogin(h, `{"email":"ninguem@grafica.com","password":"s3nh4forte"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	_, manager := newTestHandler(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "u1", claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	})
	protected := manager.RequireAuth(next)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := manager.IssueToken("u1", "admin")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredToken(t *testing.T) {
	manager := NewManager("test-secret", time.Minute)
	issued := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	token, err := manager.IssueToken("u1", "admin")
	require.NoError(t, err)

	manager.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = manager.Verify(token)
	require.Error(t, err)
}

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"herbal-store/internal/model"
)

type stubVerifier struct {
	claims map[string]*model.AuthClaims
}

func (s *stubVerifier) VerifyAccessToken(tokenString string) (*model.AuthClaims, error) {
	if claims, ok := s.claims[tokenString]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func okHandler(t *testing.T, sawClaims *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ClaimsFromContext(r.Context())
		*sawClaims = ok
		w.WriteHeader(http.StatusOK)
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestExtractAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("bearer header wins over cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer header-token")
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: "cookie-token"})
		require.Equal(t, "header-token", ExtractAccessToken(r))
	})

	t.Run("falls back to the cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: "cookie-token"})
		require.Equal(t, "cookie-token", ExtractAccessToken(r))
	})

	t.Run("ignores a non-bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic abc123")
		require.Equal(t, "", ExtractAccessToken(r))
	})

	t.Run("empty without credentials", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		require.Equal(t, "", ExtractAccessToken(r))
	})
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{claims: map[string]*model.AuthClaims{
		"good": {UserID: "u1", Role: model.RoleCustomer, Type: "access"},
	}}
	mw := NewAuthMiddleware(verifier)

	t.Run("missing token answers NO_TOKEN", func(t *testing.T) {
		var sawClaims bool
		rec := httptest.NewRecorder()
		mw.RequireAuth(okHandler(t, &sawClaims)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "NO_TOKEN", decodeBody(t, rec).Code)
		require.False(t, sawClaims)
	})

	t.Run("bad token answers TOKEN_INVALID", func(t *testing.T) {
		var sawClaims bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		mw.RequireAuth(okHandler(t, &sawClaims)).ServeHTTP(rec, r)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "TOKEN_INVALID", decodeBody(t, rec).Code)
		require.False(t, sawClaims)
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		var sawClaims bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		mw.RequireAuth(okHandler(t, &sawClaims)).ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, sawClaims)
	})

	t.Run("cookie token also authenticates", func(t *testing.T) {
		var sawClaims bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: "good"})
		rec := httptest.NewRecorder()
		mw.RequireAuth(okHandler(t, &sawClaims)).ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, sawClaims)
	})
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{claims: map[string]*model.AuthClaims{
		"good": {UserID: "u1", Role: model.RoleEditor, Type: "access"},
	}}
	mw := NewAuthMiddleware(verifier)

	t.Run("proceeds anonymously without a token", func(t *testing.T) {
		var sawClaims bool
		rec := httptest.NewRecorder()
		mw.OptionalAuth(okHandler(t, &sawClaims)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.False(t, sawClaims)
	})

	t.Run("proceeds anonymously on a bad token", func(t *testing.T) {
		var sawClaims bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		mw.OptionalAuth(okHandler(t, &sawClaims)).ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.False(t, sawClaims)
	})

	t.Run("attaches claims when the token is valid", func(t *testing.T) {
		var sawClaims bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		mw.OptionalAuth(okHandler(t, &sawClaims)).ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, sawClaims)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	verifier := &stubVerifier{claims: map[string]*model.AuthClaims{
		"admin":    {UserID: "u1", Role: model.RoleAdmin, Type: "access"},
		"customer": {UserID: "u2", Role: model.RoleCustomer, Type: "access"},
	}}
	mw := NewAuthMiddleware(verifier)

	protected := func(sawClaims *bool) http.Handler {
		return mw.RequireAuth(mw.RequireRoles(model.RoleAdmin, model.RoleEditor)(okHandler(t, sawClaims)))
	}

	t.Run("allows a listed role", func(t *testing.T) {
		var sawClaims bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer admin")
		rec := httptest.NewRecorder()
		protected(&sawClaims).ServeHTTP(rec, r)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forbids an unlisted role", func(t *testing.T) {
		var sawClaims bool
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer customer")
		rec := httptest.NewRecorder()
		protected(&sawClaims).ServeHTTP(rec, r)

		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "FORBIDDEN", decodeBody(t, rec).Code)
	})
}

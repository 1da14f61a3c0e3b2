package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"herbal-store/internal/model"
	"herbal-store/pkg/apierror"
)

func writeAndDecode(t *testing.T, err error) (int, model.APIResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	writeError(rec, err)

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestWriteError(t *testing.T) {
	t.Run("api error passes through", func(t *testing.T) {
		status, body := writeAndDecode(t, apierror.New("BAD_REQUEST", "Name is required", "name", http.StatusBadRequest))
		require.Equal(t, http.StatusBadRequest, status)
		require.False(t, body.Success)
		require.Equal(t, "BAD_REQUEST", body.Code)
		require.Equal(t, "Name is required", body.Message)
	})

	t.Run("wrapped api error still classifies", func(t *testing.T) {
		wrapped := fmt.Errorf("create product: %w", apierror.New("NOT_FOUND", "Product not found", "", http.StatusNotFound))
		status, body := writeAndDecode(t, wrapped)
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "NOT_FOUND", body.Code)
	})

	t.Run("unique violation maps to already exists", func(t *testing.T) {
		status, body := writeAndDecode(t, &pgconn.PgError{Code: "23505"})
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "ALREADY_EXISTS", body.Code)
	})

	t.Run("uuid cast failure maps to a client error", func(t *testing.T) {
		castErr := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "not-a-uuid"`}
		status, body := writeAndDecode(t, fmt.Errorf("set cart quantity: %w", castErr))
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "BAD_REQUEST", body.Code)
		require.Equal(t, "Invalid identifier", body.Message)
	})

	t.Run("sentinel not-found errors map to 404", func(t *testing.T) {
		for _, err := range []error{
			model.ErrProductNotFound,
			model.ErrCategoryNotFound,
			model.ErrArticleNotFound,
		} {
			status, body := writeAndDecode(t, fmt.Errorf("lookup: %w", err))
			require.Equal(t, http.StatusNotFound, status)
			require.Equal(t, "NOT_FOUND", body.Code)
		}
	})

	t.Run("unknown errors collapse to a generic 500", func(t *testing.T) {
		status, body := writeAndDecode(t, errors.New("pool exhausted: 42 conns in use"))
		require.Equal(t, http.StatusInternalServerError, status)
		require.Equal(t, "INTERNAL_ERROR", body.Code)
		require.Equal(t, "Unexpected server error", body.Message)
	})
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(rec, http.StatusOK, map[string]string{"hello": "world"}, model.NewMeta(1, 20, 1))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.NotNil(t, body.Meta)
	require.Equal(t, 1, body.Meta.TotalPages)
}

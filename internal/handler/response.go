package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"herbal-store/internal/model"
	"herbal-store/pkg/apierror"
)

// debugDetails controls whether unclassified error text reaches the client.
// Enabled only in development; production responses stay generic.
var debugDetails bool

func EnableDebugDetails() {
	debugDetails = true
}

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Message: message,
	})
}

// writeError classifies an error and renders the wire failure shape
// {success:false, message, code}. Everything unclassified collapses to a
// sanitized 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "Unexpected server error"

	var apiErr *apierror.APIError
	var pgErr *pgconn.PgError

	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		code = apiErr.Code
		message = apiErr.Message
	case errors.As(err, &pgErr) && pgErr.Code == "23505":
		// Unique violation backstop for races past the explicit existence checks.
		status = http.StatusBadRequest
		code = "ALREADY_EXISTS"
		message = "A record with this value already exists"
	case errors.As(err, &pgErr) && pgErr.Code == "22P02":
		// Malformed identifier that slipped past handler validation and hit a
		// typed column cast.
		status = http.StatusBadRequest
		code = "BAD_REQUEST"
		message = "Invalid identifier"
	case errors.Is(err, model.ErrUserNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "User not found"
	case errors.Is(err, model.ErrCategoryNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Category not found"
	case errors.Is(err, model.ErrProductNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Product not found"
	case errors.Is(err, model.ErrArticleNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Article not found"
	case errors.Is(err, model.ErrContentBlockNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Content block not found"
	case errors.Is(err, model.ErrCartItemNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Cart item not found"
	case errors.Is(err, model.ErrMessageNotFound):
		status, code, message = http.StatusNotFound, "NOT_FOUND", "Message not found"
	case errors.Is(err, model.ErrTokenNotFound), errors.Is(err, model.ErrTokenExpired):
		status, code, message = http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token"
	case errors.Is(err, model.ErrInvalidCredentials):
		status, code, message = http.StatusUnauthorized, "UNAUTHORIZED", "Invalid email or password"
	case errors.Is(err, model.ErrForbidden):
		status, code, message = http.StatusForbidden, "FORBIDDEN", "Access denied"
	case errors.Is(err, model.ErrInvalidInput):
		status, code, message = http.StatusBadRequest, "BAD_REQUEST", "Invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
		if debugDetails {
			message = err.Error()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Code:    code,
		Message: message,
	})
}

package middleware

import (
	"encoding/json"
	"net/http"

	"herbal-store/internal/model"
)

// writeFailure renders the wire failure envelope from middleware, where the
// handler layer's error classifier is not in scope.
func writeFailure(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Code:    code,
		Message: message,
	})
}

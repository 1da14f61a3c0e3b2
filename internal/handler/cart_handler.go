package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"herbal-store/internal/middleware"
	"herbal-store/internal/model"
	"herbal-store/internal/service"
	"herbal-store/pkg/apierror"
)

type CartHandler struct {
	service *service.CartService
}

func NewCartHandler(service *service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("NO_TOKEN", "Authentication required", "", http.StatusUnauthorized))
		return
	}

	cart, err := h.service.Get(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, cart, nil)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("NO_TOKEN", "Authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid JSON body", "", http.StatusBadRequest))
		return
	}

	if strings.TrimSpace(payload.ProductID) == "" {
		writeError(w, apierror.New("BAD_REQUEST", "Product id is required", "productId", http.StatusBadRequest))
		return
	}

	cart, err := h.service.AddItem(r.Context(), claims.UserID, payload.ProductID, payload.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, cart, nil)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("NO_TOKEN", "Authentication required", "", http.StatusUnauthorized))
		return
	}

	var payload model.CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid JSON body", "", http.StatusBadRequest))
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), claims.UserID, chi.URLParam(r, "productID"), payload.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, cart, nil)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("NO_TOKEN", "Authentication required", "", http.StatusUnauthorized))
		return
	}

	cart, err := h.service.RemoveItem(r.Context(), claims.UserID, chi.URLParam(r, "productID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, cart, nil)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("NO_TOKEN", "Authentication required", "", http.StatusUnauthorized))
		return
	}

	if err := h.service.Clear(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Cart cleared")
}

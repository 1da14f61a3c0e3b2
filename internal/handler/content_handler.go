package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"herbal-store/internal/model"
	"herbal-store/internal/service"
	"herbal-store/pkg/apierror"
)

type ContentHandler struct {
	service *service.ContentService
}

func NewContentHandler(service *service.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"blocks": blocks}, nil)
}

func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	block, err := h.service.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, block, nil)
}

func (h *ContentHandler) Put(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ContentBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid JSON body", "", http.StatusBadRequest))
		return
	}

	block, err := h.service.Put(r.Context(), chi.URLParam(r, "key"), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, block, nil)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"herbal-store/internal/middleware"
	"herbal-store/internal/model"
	"herbal-store/internal/service"
	"herbal-store/pkg/apierror"
)

// ArticleHandler serves one article collection (blog posts or news items);
// the router mounts an instance per collection.
type ArticleHandler struct {
	service *service.ArticleService
}

func NewArticleHandler(service *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// List shows published articles to everyone; an authenticated admin or
// editor also sees drafts.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	includeDrafts := false
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		includeDrafts = claims.Role == model.RoleAdmin || claims.Role == model.RoleEditor
	}

	articles, meta, err := h.service.List(r.Context(), includeDrafts, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"articles": articles}, meta)
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.service.Get(r.Context(), chi.URLParam(r, "idOrSlug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, article, nil)
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid JSON body", "", http.StatusBadRequest))
		return
	}

	article, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, article, nil)
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid JSON body", "", http.StatusBadRequest))
		return
	}

	article, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, article, nil)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Article deleted")
}

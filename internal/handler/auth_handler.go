package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"herbal-store/internal/metrics"
	"herbal-store/internal/middleware"
	"herbal-store/internal/model"
	"herbal-store/internal/service"
	"herbal-store/pkg/apierror"
)

type AuthHandler struct {
	service    *service.AuthService
	cookieName string
	collector  *metrics.Collector
}

func NewAuthHandler(service *service.AuthService, cookieName string, collector *metrics.Collector) *AuthHandler {
	return &AuthHandler{service: service, cookieName: cookieName, collector: collector}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid JSON body", "", http.StatusBadRequest))
		return
	}

	session, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password, deviceMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	h.recordIssued()
	writeSuccess(w, http.StatusCreated, session, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid JSON body", "", http.StatusBadRequest))
		return
	}

	session, err := h.service.Login(r.Context(), payload.Email, payload.Password, deviceMeta(r))
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	h.recordIssued()
	writeSuccess(w, http.StatusOK, session, nil)
}

// Refresh reads the refresh token from its cookie, never from the body. An
// invalid token clears the cookie so the client stops replaying it.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, apierror.New("NO_TOKEN", "No refresh token provided", "", http.StatusUnauthorized))
		return
	}

	session, err := h.service.Refresh(r.Context(), cookie.Value, deviceMeta(r))
	if err != nil {
		h.clearRefreshCookie(w)
		if h.collector != nil {
			h.collector.RecordRefreshRejected()
		}
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	h.recordIssued()
	writeSuccess(w, http.StatusOK, session, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("NO_TOKEN", "Authentication required", "", http.StatusUnauthorized))
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"user": user}, nil)
}

// Logout always clears the cookie and always succeeds, even when the token
// record is already gone.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, err)
			return
		}
		h.recordRevoked()
	}

	h.clearRefreshCookie(w)
	writeMessage(w, http.StatusOK, "Logged out")
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("NO_TOKEN", "Authentication required", "", http.StatusUnauthorized))
		return
	}

	if err := h.service.LogoutAll(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}

	h.recordRevoked()
	h.clearRefreshCookie(w)
	writeMessage(w, http.StatusOK, "Logged out from all devices")
}

// setRefreshCookie delivers the raw refresh token. HttpOnly keeps scripts
// away from it; SameSite=None + Secure lets the separately hosted storefront
// send it cross-site.
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.service.RefreshTTL() / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) recordIssued() {
	if h.collector != nil {
		h.collector.RecordSessionIssued()
	}
}

func (h *AuthHandler) recordRevoked() {
	if h.collector != nil {
		h.collector.RecordSessionRevoked()
	}
}

func deviceMeta(r *http.Request) model.DeviceMeta {
	return model.DeviceMeta{
		UserAgent: r.UserAgent(),
		IP:        middleware.ClientIP(r),
	}
}

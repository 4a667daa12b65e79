package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/application"
	"github.com/vitalya420/loyalty-auth-core/internal/codec"
	"github.com/vitalya420/loyalty-auth-core/internal/guard"
)

// TokenHandler serves the /tokens family of routes: rotation, revocation,
// and listing of a caller's sessions.
type TokenHandler struct {
	tokens *application.TokenEngine
	codec  *codec.Codec
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(tokens *application.TokenEngine, c *codec.Codec) *TokenHandler {
	return &TokenHandler{tokens: tokens, codec: c}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /tokens/refresh, rotating a live refresh token into
// a new pair. A malformed or already-revoked/expired refresh credential is
// BadRequest, not Unauthorized, per the explicit-refresh error policy.
func (h *TokenHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.New(apperr.KindBadRequest, "invalid request body"))
		return
	}

	claims, err := h.codec.Decode(req.RefreshToken)
	if err != nil || claims.Type != codec.TypeRefresh {
		writeErr(w, apperr.New(apperr.KindBadRequest, "invalid or expired refresh token"))
		return
	}

	access, refresh, err := h.tokens.Refresh(r.Context(), claims.JTI, clientIP(r), r.UserAgent())
	if err != nil {
		writeErr(w, err)
		return
	}

	accessStr, err := h.codec.Encode(access.JTI, access.UserID, access.Realm, access.BusinessCode, codec.TypeAccess, access.IssuedAt, access.ExpiresAt)
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.KindInternal, "failed to encode token", err))
		return
	}
	refreshStr, err := h.codec.Encode(refresh.JTI, refresh.UserID, refresh.Realm, refresh.BusinessCode, codec.TypeRefresh, refresh.IssuedAt, refresh.ExpiresAt)
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.KindInternal, "failed to encode token", err))
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{accessStr, refreshStr})
}

// Logout handles POST /tokens/logout, revoking the caller's current pair.
func (h *TokenHandler) Logout(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireGuards(w, r, guard.LoginRequired)
	if !ok {
		return
	}

	if err := h.tokens.RevokeAccess(r.Context(), rc.AccessToken().JTI); err != nil {
		writeErr(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "logged out", nil)
}

// Revoke handles POST /tokens/{jti}/revoke, revoking a specific session the
// caller owns.
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireGuards(w, r, guard.LoginRequired)
	if !ok {
		return
	}

	jti, err := uuid.Parse(chi.URLParam(r, "jti"))
	if err != nil {
		writeErr(w, apperr.New(apperr.KindBadRequest, "invalid token id"))
		return
	}

	if err := h.tokens.UserRevokesByJTI(r.Context(), rc.User().ID, jti); err != nil {
		writeErr(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "token revoked", nil)
}

// RevokeAll handles POST /tokens/revoke-all, revoking every session for the
// caller's realm/business except the one making the request.
func (h *TokenHandler) RevokeAll(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireGuards(w, r, guard.LoginRequired)
	if !ok {
		return
	}

	access := rc.AccessToken()
	count, err := h.tokens.RevokeAllExceptCurrent(r.Context(), rc.User().ID, rc.Realm(), access.BusinessCode, access.JTI)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "sessions revoked", map[string]interface{}{"revoked": count})
}

// List handles GET /tokens?page=&per_page=, paginating the caller's access
// tokens within their current realm/business scope. Revoked and expired
// tokens are included; each row carries its revoked flag and expiry.
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireGuards(w, r, guard.LoginRequired)
	if !ok {
		return
	}

	page, perPage := paginationParams(r)
	access := rc.AccessToken()

	tokens, err := h.tokens.List(r.Context(), rc.User().ID, rc.Realm(), access.BusinessCode, perPage, (page-1)*perPage)
	if err != nil {
		writeErr(w, err)
		return
	}
	total, err := h.tokens.Count(r.Context(), rc.User().ID, rc.Realm(), access.BusinessCode)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":     page,
		"per_page": perPage,
		"on_page":  len(tokens),
		"total":    total,
		"tokens":   tokens,
	})
}

func paginationParams(r *http.Request) (page, perPage int) {
	page = 1
	perPage = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 {
		perPage = v
	}
	return page, perPage
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/application"
	"github.com/vitalya420/loyalty-auth-core/internal/codec"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
	"github.com/vitalya420/loyalty-auth-core/internal/guard"
)

// AuthHandler serves the /auth family of routes: starting and confirming a
// session, and bootstrapping an admin account.
type AuthHandler struct {
	flow  *application.AuthFlow
	codec *codec.Codec
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(flow *application.AuthFlow, c *codec.Codec) *AuthHandler {
	return &AuthHandler{flow: flow, codec: c}
}

type startAuthRequest struct {
	Phone    string       `json:"phone"`
	Realm    domain.Realm `json:"realm"`
	Password string       `json:"password,omitempty"`
	Business string       `json:"business,omitempty"`
}

// Start handles POST /auth. The realm field selects between the web
// password path (immediate tokens) and the mobile OTP path (a dispatched
// code, no session yet).
func (h *AuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.New(apperr.KindBadRequest, "invalid request body"))
		return
	}

	switch req.Realm {
	case domain.RealmWeb:
		result, err := h.flow.LoginWeb(r.Context(), req.Phone, req.Password, clientIP(r), r.UserAgent())
		if err != nil {
			writeErr(w, err)
			return
		}
		access, refresh, err := h.encodePair(result.Access, result.Refresh)
		if err != nil {
			writeErr(w, apperr.Wrap(apperr.KindInternal, "failed to encode tokens", err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user":     result.User,
			"business": result.Business,
			"tokens":   tokenPairResponse{access, refresh},
		})
	case domain.RealmMobile:
		if _, err := h.flow.StartMobile(r.Context(), req.Phone, req.Business); err != nil {
			writeErr(w, err)
			return
		}
		writeMessage(w, http.StatusOK, "otp sent", nil)
	default:
		writeErr(w, apperr.New(apperr.KindBadRequest, `realm must be "web" or "mobile"`))
	}
}

type confirmAuthRequest struct {
	Phone    string `json:"phone"`
	OTP      string `json:"otp"`
	Business string `json:"business"`
}

// Confirm handles POST /auth/confirm, completing the mobile OTP path.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.New(apperr.KindBadRequest, "invalid request body"))
		return
	}
	if _, ok := requireGuards(w, r, guard.OtpContext(req.Phone, req.Business)); !ok {
		return
	}

	result, err := h.flow.ConfirmMobile(r.Context(), req.Phone, req.Business, req.OTP, clientIP(r), r.UserAgent())
	if err != nil {
		writeErr(w, err)
		return
	}
	access, refresh, err := h.encodePair(result.Access, result.Refresh)
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.KindInternal, "failed to encode tokens", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"client": result.Client,
		"tokens": tokenPairResponse{access, refresh},
	})
}

type adminAuthRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Admin handles POST /auth/admin, the supplemented admin-bootstrap path.
func (h *AuthHandler) Admin(w http.ResponseWriter, r *http.Request) {
	var req adminAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.New(apperr.KindBadRequest, "invalid request body"))
		return
	}

	user, err := h.flow.BootstrapAdmin(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) encodePair(access *domain.AccessToken, refresh *domain.RefreshToken) (string, string, error) {
	accessStr, err := h.codec.Encode(access.JTI, access.UserID, access.Realm, access.BusinessCode, codec.TypeAccess, access.IssuedAt, access.ExpiresAt)
	if err != nil {
		return "", "", err
	}
	refreshStr, err := h.codec.Encode(refresh.JTI, refresh.UserID, refresh.Realm, refresh.BusinessCode, codec.TypeRefresh, refresh.IssuedAt, refresh.ExpiresAt)
	if err != nil {
		return "", "", err
	}
	return accessStr, refreshStr, nil
}

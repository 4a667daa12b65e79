package http

import (
	"net/http"

	"github.com/vitalya420/loyalty-auth-core/internal/guard"
)

// MeHandler serves GET /me, reading the caller's identity straight out of
// the Request Context rather than issuing fresh lookups.
type MeHandler struct{}

// NewMeHandler creates a MeHandler.
func NewMeHandler() *MeHandler { return &MeHandler{} }

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireGuards(w, r, guard.LoginRequired)
	if !ok {
		return
	}

	body := map[string]interface{}{"user": rc.User()}
	if business := rc.Business(); business != nil {
		body["business"] = business
	}
	if client := rc.Client(); client != nil {
		body["client"] = client
	}
	writeJSON(w, http.StatusOK, body)
}

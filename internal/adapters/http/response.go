package http

import (
	"encoding/json"
	"net/http"

	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
)

// writeJSON writes a successful {success:true,data:...} envelope.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

// writeMessage writes {success:true,message:...}, the shape most of the
// token/auth endpoints use instead of a data envelope.
func writeMessage(w http.ResponseWriter, status int, message string, extra map[string]interface{}) {
	body := map[string]interface{}{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeErr maps err onto an HTTP status per the error-kind table and writes
// {success:false,message:...}.
func writeErr(w http.ResponseWriter, err error) {
	status := statusForKind(apperr.KindOf(err))
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": err.Error(),
	})
}

func statusForKind(k apperr.Kind) int {
	switch k {
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindSmsCooldown:
		return http.StatusServiceUnavailable
	case apperr.KindUserExists:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

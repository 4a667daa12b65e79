// Package http provides the primary HTTP adapter: it translates inbound
// requests into application-layer calls and translates results back into
// the JSON envelope callers see.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vitalya420/loyalty-auth-core/internal/application"
	"github.com/vitalya420/loyalty-auth-core/internal/codec"
)

// Router holds the chi mux and the handlers it dispatches to.
type Router struct {
	router chi.Router
}

// NewRouter wires every route in the external interface onto a fresh chi
// mux, built from the application-layer services.
func NewRouter(flow *application.AuthFlow, tokens *application.TokenEngine, identity *application.IdentityService, otp *application.OTPEngine, c *codec.Codec) *Router {
	r := &Router{router: chi.NewRouter()}

	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.RealIP)
	r.router.Use(middleware.Logger)
	r.router.Use(middleware.Recoverer)
	r.router.Use(middleware.AllowContentType("application/json"))
	r.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			next.ServeHTTP(w, req)
		})
	})
	r.router.Use(resolveContext(c, buildGetters(tokens, identity, otp)))

	authHandler := NewAuthHandler(flow, c)
	tokenHandler := NewTokenHandler(tokens, c)
	meHandler := NewMeHandler()

	r.router.Post("/auth", authHandler.Start)
	r.router.Post("/auth/confirm", authHandler.Confirm)
	r.router.Post("/auth/admin", authHandler.Admin)

	r.router.Post("/tokens/refresh", tokenHandler.Refresh)
	r.router.Post("/tokens/logout", tokenHandler.Logout)
	r.router.Post("/tokens/{jti}/revoke", tokenHandler.Revoke)
	r.router.Post("/tokens/revoke-all", tokenHandler.RevokeAll)
	r.router.Get("/tokens", tokenHandler.List)

	r.router.Get("/me", meHandler.Get)

	r.router.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.router.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})

	return r
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

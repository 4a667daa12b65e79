package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/application"
	"github.com/vitalya420/loyalty-auth-core/internal/codec"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
	"github.com/vitalya420/loyalty-auth-core/internal/guard"
	"github.com/vitalya420/loyalty-auth-core/internal/requestctx"
)

type ctxKey string

const requestCtxKey ctxKey = "request_context"

// buildGetters binds the Request Context's resolver closures to the
// application layer, the one place allowed to import both packages.
func buildGetters(tokens *application.TokenEngine, identity *application.IdentityService, otp *application.OTPEngine) requestctx.Getters {
	return requestctx.Getters{
		AccessToken: func(ctx context.Context, jti uuid.UUID) (*domain.AccessToken, error) {
			return tokens.GetAccess(ctx, jti, true)
		},
		User: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return identity.GetUserByID(ctx, id)
		},
		Business: func(ctx context.Context, code string) (*domain.Business, error) {
			return identity.GetBusinessByCode(ctx, code)
		},
		Client: func(ctx context.Context, userID uuid.UUID, businessCode string) (*domain.Client, error) {
			return identity.GetClient(ctx, userID, businessCode)
		},
		OTP: func(ctx context.Context, phone, businessCode string) (*domain.OTP, error) {
			live, err := otp.GetLive(ctx, phone, businessCode)
			if err != nil {
				if apperr.KindOf(err) == apperr.KindBadRequest {
					return nil, nil
				}
				return nil, err
			}
			return live, nil
		},
	}
}

// resolveContext installs a requestctx.Context built from the request's
// bearer credential (if any) into the request's context, for every route.
func resolveContext(c *codec.Codec, getters requestctx.Getters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := bearerFromHeader(r)
			rc := requestctx.New(r.Context(), bearer, c, getters)
			ctx := context.WithValue(r.Context(), requestCtxKey, rc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func rcFrom(r *http.Request) *requestctx.Context {
	rc, _ := r.Context().Value(requestCtxKey).(*requestctx.Context)
	return rc
}

// requireGuards runs checks against the request's resolved identity, writing
// an error response and returning false on the first failure.
func requireGuards(w http.ResponseWriter, r *http.Request, checks ...guard.Check) (*requestctx.Context, bool) {
	rc := rcFrom(r)
	if err := guard.All(rc, checks...); err != nil {
		writeErr(w, err)
		return nil, false
	}
	return rc, true
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return r.RemoteAddr
}

// Package guard implements the Realm/Role Guard: composable predicates over
// a request's resolved identity, used by the HTTP adapter to gate routes
// before a handler runs.
package guard

import (
	"time"

	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
	"github.com/vitalya420/loyalty-auth-core/internal/requestctx"
)

// Check inspects a resolved Context and returns a non-nil *apperr.Error if
// the request should be rejected.
type Check func(rc *requestctx.Context) error

// LoginRequired rejects requests without a live, resolved user.
func LoginRequired(rc *requestctx.Context) error {
	if rc.AccessToken() == nil || rc.User() == nil {
		return apperr.New(apperr.KindUnauthorized, "authentication required")
	}
	return nil
}

// RealmIs rejects requests whose bearer realm does not match want.
func RealmIs(want domain.Realm) Check {
	return func(rc *requestctx.Context) error {
		if rc.Realm() != want {
			return apperr.New(apperr.KindForbidden, "wrong realm for this route")
		}
		return nil
	}
}

// OtpContext returns a Check that loads the live OTP for (phone, businessCode)
// onto rc, for handlers downstream to read via rc.OTP(). Rejects the request
// if no live OTP exists for that pair.
func OtpContext(phone, businessCode string) Check {
	return func(rc *requestctx.Context) error {
		otp, err := rc.ResolveOTP(phone, businessCode)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "failed to load otp", err)
		}
		if otp == nil || !otp.IsLive(time.Now().UTC()) {
			return apperr.New(apperr.KindBadRequest, "otp expired or not found")
		}
		return nil
	}
}

// BusinessScoped rejects requests without a resolved business.
func BusinessScoped(rc *requestctx.Context) error {
	if rc.Business() == nil {
		return apperr.New(apperr.KindBadRequest, "business scope required")
	}
	return nil
}

// AdminOnly rejects requests whose resolved user is not an admin.
func AdminOnly(rc *requestctx.Context) error {
	user := rc.User()
	if user == nil || !user.IsAdmin {
		return apperr.New(apperr.KindForbidden, "admin privileges required")
	}
	return nil
}

// All runs checks in order, returning the first failure.
func All(rc *requestctx.Context, checks ...Check) error {
	for _, check := range checks {
		if err := check(rc); err != nil {
			return err
		}
	}
	return nil
}

// Package requestctx implements the Request Context: a per-request,
// lazily-memoized resolution chain from a bearer credential down to caller
// identity (user, business, client).
//
// Grounded in spec §9's design note: "replace inheritance of a web-framework
// request with a small per-request struct holding optional memoized fields
// and accessor methods... accept function pointers/closures for
// token_getter, user_getter, business_getter, client_getter to break import
// cycles." The getters are built by the HTTP adapter (buildGetters in
// internal/adapters/http), bound to the
// Token Engine and User/Business/Client services, so this package never
// imports internal/application directly.
package requestctx

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/codec"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
)

// AccessTokenGetter resolves an access token by jti, alive-only.
type AccessTokenGetter func(ctx context.Context, jti uuid.UUID) (*domain.AccessToken, error)

// UserGetter resolves a user by id.
type UserGetter func(ctx context.Context, id uuid.UUID) (*domain.User, error)

// BusinessGetter resolves a business by code.
type BusinessGetter func(ctx context.Context, code string) (*domain.Business, error)

// ClientGetter resolves a client by (user, business).
type ClientGetter func(ctx context.Context, userID uuid.UUID, businessCode string) (*domain.Client, error)

// OTPGetter resolves the live OTP for (phone, businessCode), if any.
type OTPGetter func(ctx context.Context, phone, businessCode string) (*domain.OTP, error)

// Getters bundles the resolver closures injected at startup.
type Getters struct {
	AccessToken AccessTokenGetter
	User        UserGetter
	Business    BusinessGetter
	Client      ClientGetter
	OTP         OTPGetter
}

// Context is the per-request memoization of caller identity. Every resolver
// is idempotent: calling it twice returns the same memoized value without a
// second lookup, and a break anywhere in the chain yields nil for every
// field that depends on it.
type Context struct {
	ctx     context.Context
	bearer  string
	getters Getters
	codec   *codec.Codec

	once struct {
		jwt      sync.Once
		access   sync.Once
		user     sync.Once
		business sync.Once
		client   sync.Once
	}

	jwtPayload  *codec.Claims
	accessToken *domain.AccessToken
	user        *domain.User
	business    *domain.Business
	client      *domain.Client
	otp         *domain.OTP
}

// New creates a Context for one inbound request. bearer is the raw value of
// the Authorization header's token part, or "" if absent.
func New(ctx context.Context, bearer string, c *codec.Codec, getters Getters) *Context {
	return &Context{ctx: ctx, bearer: bearer, codec: c, getters: getters}
}

// JWTPayload decodes the bearer credential, memoized. Returns nil if there
// is no bearer or it fails to decode.
func (c *Context) JWTPayload() *codec.Claims {
	c.once.jwt.Do(func() {
		if c.bearer == "" {
			return
		}
		claims, err := c.codec.Decode(c.bearer)
		if err != nil {
			return
		}
		c.jwtPayload = claims
	})
	return c.jwtPayload
}

// AccessToken resolves the alive access token named by the bearer's jti, if
// the bearer's type is "access". Memoized.
func (c *Context) AccessToken() *domain.AccessToken {
	c.once.access.Do(func() {
		payload := c.JWTPayload()
		if payload == nil || payload.Type != codec.TypeAccess {
			return
		}
		if c.getters.AccessToken == nil {
			return
		}
		token, err := c.getters.AccessToken(c.ctx, payload.JTI)
		if err != nil {
			return
		}
		c.accessToken = token
	})
	return c.accessToken
}

// User resolves the caller's user record via the access token's user_id.
// Memoized.
func (c *Context) User() *domain.User {
	c.once.user.Do(func() {
		access := c.AccessToken()
		if access == nil || c.getters.User == nil {
			return
		}
		user, err := c.getters.User(c.ctx, access.UserID)
		if err != nil {
			return
		}
		c.user = user
	})
	return c.user
}

// Business resolves the caller's business via the access token's
// business_code, if present. Memoized.
func (c *Context) Business() *domain.Business {
	c.once.business.Do(func() {
		access := c.AccessToken()
		if access == nil || access.BusinessCode == "" || c.getters.Business == nil {
			return
		}
		business, err := c.getters.Business(c.ctx, access.BusinessCode)
		if err != nil {
			return
		}
		c.business = business
	})
	return c.business
}

// Client resolves the (user, business) client record once both are known.
// Memoized.
func (c *Context) Client() *domain.Client {
	c.once.client.Do(func() {
		user := c.User()
		business := c.Business()
		if user == nil || business == nil || c.getters.Client == nil {
			return
		}
		client, err := c.getters.Client(c.ctx, user.ID, business.Code)
		if err != nil {
			return
		}
		c.client = client
	})
	return c.client
}

// ResolveOTP loads the live OTP for (phone, businessCode) via the injected
// OTP getter, memoizing the result. Unlike the bearer-derived resolvers,
// the lookup value isn't known until a handler parses its request body, so
// this is called explicitly rather than lazily on first access.
func (c *Context) ResolveOTP(phone, businessCode string) (*domain.OTP, error) {
	if c.getters.OTP == nil {
		return nil, nil
	}
	otp, err := c.getters.OTP(c.ctx, phone, businessCode)
	if err != nil {
		return nil, err
	}
	c.otp = otp
	return otp, nil
}

// OTP returns the OTP resolved by the most recent ResolveOTP call, or nil if
// none has run yet.
func (c *Context) OTP() *domain.OTP {
	return c.otp
}

// Realm returns the realm carried by the bearer credential, or "" if there
// is none.
func (c *Context) Realm() domain.Realm {
	if payload := c.JWTPayload(); payload != nil {
		return payload.Realm
	}
	return ""
}

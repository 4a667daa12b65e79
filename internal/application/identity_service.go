package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/apperr"
	"github.com/vitalya420/loyalty-auth-core/internal/cache"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
	"github.com/vitalya420/loyalty-auth-core/internal/ports"
)

// IdentityService owns the User, Business, and Client entities: creation,
// lookup (cache-through), and the cache-invalidating mutations the Auth
// Flow Coordinator depends on. The three live together because a mobile
// confirmation touches all three inside one logical operation.
type IdentityService struct {
	users     ports.UserRepository
	businesses ports.BusinessRepository
	clients   ports.ClientRepository
	hasher    ports.PasswordHasher
	codes     ports.CodeGenerator
	c         ports.Cache
}

// NewIdentityService wires an IdentityService.
func NewIdentityService(
	users ports.UserRepository,
	businesses ports.BusinessRepository,
	clients ports.ClientRepository,
	hasher ports.PasswordHasher,
	codes ports.CodeGenerator,
	c ports.Cache,
) *IdentityService {
	return &IdentityService{users: users, businesses: businesses, clients: clients, hasher: hasher, codes: codes, c: c}
}

// GetUserByID is the cache-through read for a user by id.
func (s *IdentityService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := cache.WithCache[domain.User](ctx, s.c, domain.UserCanonicalKey(id), nil,
		func(ctx context.Context) (*domain.User, error) {
			return s.users.GetByID(ctx, id)
		})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load user", err)
	}
	if user == nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "user not found", domain.ErrUserNotFound)
	}
	return user, nil
}

// GetUserByPhone is the cache-through read for a user by phone, dereferenced
// through the phone reference key.
func (s *IdentityService) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	user, err := cache.WithCache[domain.User](ctx, s.c, "", []string{domain.UserReferenceKeyByPhone(phone)},
		func(ctx context.Context) (*domain.User, error) {
			return s.users.GetByPhone(ctx, phone)
		})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load user", err)
	}
	if user == nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "user not found", domain.ErrUserNotFound)
	}
	return user, nil
}

// GetOrCreateUser returns the existing user for phone, or creates a fresh
// mobile-origin one. Used by the mobile OTP confirmation flow.
func (s *IdentityService) GetOrCreateUser(ctx context.Context, phone string) (*domain.User, error) {
	existing, err := s.users.GetByPhone(ctx, phone)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up user", err)
	}
	if existing != nil {
		return existing, nil
	}

	user, err := domain.NewUser(phone)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "invalid phone", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create user", err)
	}
	_ = cache.CacheEntity[domain.User](ctx, s.c, user, cache.DefaultTTL)
	return user, nil
}

// CreateAdmin bootstraps an admin user with a password hash, bypassing OTP.
// Fails UserExists if the phone is already taken.
func (s *IdentityService) CreateAdmin(ctx context.Context, phone, password string) (*domain.User, error) {
	taken, err := s.users.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to check phone uniqueness", err)
	}
	if taken {
		return nil, apperr.New(apperr.KindUserExists, "phone already registered")
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "weak password", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user, err := domain.NewAdminUser(phone, hash)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "invalid phone", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create admin user", err)
	}
	_ = cache.CacheEntity[domain.User](ctx, s.c, user, cache.DefaultTTL)
	return user, nil
}

// GetBusinessByCode is the cache-through read for a business by code.
func (s *IdentityService) GetBusinessByCode(ctx context.Context, code string) (*domain.Business, error) {
	business, err := cache.WithCache[domain.Business](ctx, s.c, domain.BusinessCanonicalKey(code), nil,
		func(ctx context.Context) (*domain.Business, error) {
			return s.businesses.GetByCode(ctx, code)
		})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load business", err)
	}
	if business == nil {
		return nil, apperr.Wrap(apperr.KindNotFound, "business not found", domain.ErrBusinessNotFound)
	}
	return business, nil
}

// GetBusinessByOwner returns the single business owned by ownerID, or
// ErrUserHasNoBusiness if none exists.
func (s *IdentityService) GetBusinessByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error) {
	business, err := s.businesses.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load business", err)
	}
	if business == nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "user has no business", domain.ErrUserHasNoBusiness)
	}
	return business, nil
}

// CreateBusiness creates a new business owned by ownerID, generating its
// code. Fails if the owner already has one.
func (s *IdentityService) CreateBusiness(ctx context.Context, name string, ownerID uuid.UUID) (*domain.Business, error) {
	existing, err := s.businesses.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to check existing business", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindBadRequest, "owner already has a business")
	}

	code := s.codes.BusinessCode()
	business := domain.NewBusiness(code, name, ownerID)
	if err := s.businesses.Create(ctx, business); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create business", err)
	}
	_ = cache.CacheEntity[domain.Business](ctx, s.c, business, cache.DefaultTTL)
	return business, nil
}

// GetOrCreateClient returns the existing (user, business) client, or
// creates one with a fresh QR code. Used by the mobile OTP confirmation
// flow.
func (s *IdentityService) GetOrCreateClient(ctx context.Context, userID uuid.UUID, businessCode, firstName string) (*domain.Client, error) {
	existing, err := s.clients.GetByUserAndBusiness(ctx, userID, businessCode)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to look up client", err)
	}
	if existing != nil {
		return existing, nil
	}

	client := domain.NewClient(userID, businessCode, firstName, s.codes.QRCode())
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create client", err)
	}
	_ = cache.CacheEntity[domain.Client](ctx, s.c, client, cache.DefaultTTL)
	return client, nil
}

// GetClient is the cache-through read for a client by (userID, businessCode).
func (s *IdentityService) GetClient(ctx context.Context, userID uuid.UUID, businessCode string) (*domain.Client, error) {
	client, err := cache.WithCache[domain.Client](ctx, s.c, domain.ClientCanonicalKey(userID, businessCode), nil,
		func(ctx context.Context) (*domain.Client, error) {
			return s.clients.GetByUserAndBusiness(ctx, userID, businessCode)
		})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to load client", err)
	}
	return client, nil
}

// UpdateClient persists a mutated client and invalidates its cache entry.
func (s *IdentityService) UpdateClient(ctx context.Context, client *domain.Client) error {
	if err := s.clients.Update(ctx, client); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to update client", err)
	}
	_ = cache.Invalidate[domain.Client](ctx, s.c, client)
	return nil
}

package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitalya420/loyalty-auth-core/internal/domain"
	"github.com/vitalya420/loyalty-auth-core/internal/ports"
)

// memCache is an in-memory ports.Cache fake; a clean miss returns (nil, nil)
// per the port's contract.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

// fakeUOW runs fn directly against in-memory stores; there is no real
// transaction isolation to model in-process.
type fakeUOW struct {
	tx ports.Transaction
}

func (u *fakeUOW) Execute(ctx context.Context, fn func(tx ports.Transaction) error) error {
	return fn(u.tx)
}

type fakeTx struct {
	users    *fakeUserRepo
	businesses *fakeBusinessRepo
	clients  *fakeClientRepo
	otps     *fakeOTPRepo
	access   *fakeAccessRepo
	refresh  *fakeRefreshRepo
}

func (t *fakeTx) Users() ports.UserRepository                 { return t.users }
func (t *fakeTx) Businesses() ports.BusinessRepository        { return t.businesses }
func (t *fakeTx) Clients() ports.ClientRepository             { return t.clients }
func (t *fakeTx) OTPs() ports.OTPRepository                   { return t.otps }
func (t *fakeTx) AccessTokens() ports.AccessTokenRepository   { return t.access }
func (t *fakeTx) RefreshTokens() ports.RefreshTokenRepository { return t.refresh }

type fakeUserRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*domain.User
	byPhone map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uuid.UUID]*domain.User), byPhone: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	r.byPhone[u.Phone] = u
	return nil
}
func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}
func (r *fakeUserRepo) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPhone[phone], nil
}
func (r *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	r.byPhone[u.Phone] = u
	return nil
}
func (r *fakeUserRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byPhone[phone]
	return ok, nil
}

type fakeBusinessRepo struct {
	mu      sync.Mutex
	byCode  map[string]*domain.Business
	byOwner map[uuid.UUID]*domain.Business
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{byCode: make(map[string]*domain.Business), byOwner: make(map[uuid.UUID]*domain.Business)}
}

func (r *fakeBusinessRepo) Create(ctx context.Context, b *domain.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byCode[b.Code] = b
	r.byOwner[b.OwnerID] = b
	return nil
}
func (r *fakeBusinessRepo) GetByCode(ctx context.Context, code string) (*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byCode[code], nil
}
func (r *fakeBusinessRepo) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) (*domain.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byOwner[ownerID], nil
}
func (r *fakeBusinessRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byCode[code]
	return ok, nil
}

type clientKey struct {
	userID uuid.UUID
	code   string
}

type fakeClientRepo struct {
	mu   sync.Mutex
	data map[clientKey]*domain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{data: make(map[clientKey]*domain.Client)}
}

func (r *fakeClientRepo) Create(ctx context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[clientKey{c.UserID, c.BusinessCode}] = c
	return nil
}
func (r *fakeClientRepo) GetByUserAndBusiness(ctx context.Context, userID uuid.UUID, code string) (*domain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[clientKey{userID, code}], nil
}
func (r *fakeClientRepo) Update(ctx context.Context, c *domain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[clientKey{c.UserID, c.BusinessCode}] = c
	return nil
}

type fakeOTPRepo struct {
	mu   sync.Mutex
	rows []*domain.OTP
}

func newFakeOTPRepo() *fakeOTPRepo { return &fakeOTPRepo{} }

func (r *fakeOTPRepo) Create(ctx context.Context, otp *domain.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, otp)
	return nil
}
func (r *fakeOTPRepo) GetLive(ctx context.Context, phone, code string) (*domain.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for i := len(r.rows) - 1; i >= 0; i-- {
		o := r.rows[i]
		if o.Phone == phone && o.BusinessCode == code && o.IsLive(now) {
			return o, nil
		}
	}
	return nil, nil
}
func (r *fakeOTPRepo) CountSince(ctx context.Context, phone, code string, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.rows {
		if o.Phone == phone && o.BusinessCode == code && !o.SentAt.Before(since) {
			n++
		}
	}
	return n, nil
}
func (r *fakeOTPRepo) RevokeLive(ctx context.Context, phone, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.rows {
		if o.Phone == phone && o.BusinessCode == code && !o.Revoked && !o.Used {
			o.Revoke()
		}
	}
	return nil
}
func (r *fakeOTPRepo) MarkUsed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.rows {
		if o.ID == id {
			o.MarkUsed()
		}
	}
	return nil
}

type fakeAccessRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.AccessToken
}

func newFakeAccessRepo() *fakeAccessRepo { return &fakeAccessRepo{rows: make(map[uuid.UUID]*domain.AccessToken)} }

func (r *fakeAccessRepo) Create(ctx context.Context, t *domain.AccessToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[t.JTI] = t
	return nil
}
func (r *fakeAccessRepo) GetByJTI(ctx context.Context, jti uuid.UUID, aliveOnly bool) (*domain.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[jti]
	if !ok {
		return nil, nil
	}
	if aliveOnly && !t.IsAlive(time.Now().UTC()) {
		return nil, nil
	}
	return t, nil
}
func (r *fakeAccessRepo) GetByRefreshJTI(ctx context.Context, refreshJTI uuid.UUID) (*domain.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.rows {
		if t.RefreshTokenID == refreshJTI {
			return t, nil
		}
	}
	return nil, nil
}
func (r *fakeAccessRepo) Revoke(ctx context.Context, jti uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[jti]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	return true, nil
}
func (r *fakeAccessRepo) RevokeForUser(ctx context.Context, userID uuid.UUID, realm domain.Realm, code string, exceptJTI uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.rows {
		if t.UserID == userID && t.Realm == realm && t.BusinessCode == code && t.JTI != exceptJTI && !t.Revoked {
			t.Revoked = true
			n++
		}
	}
	return n, nil
}
func (r *fakeAccessRepo) List(ctx context.Context, userID uuid.UUID, realm domain.Realm, code string, limit, offset int) ([]*domain.AccessToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.AccessToken
	for _, t := range r.rows {
		if t.UserID == userID && t.Realm == realm && t.BusinessCode == code {
			out = append(out, t)
		}
	}
	return out, nil
}
func (r *fakeAccessRepo) Count(ctx context.Context, userID uuid.UUID, realm domain.Realm, code string) (int, error) {
	tokens, _ := r.List(ctx, userID, realm, code, 0, 0)
	return len(tokens), nil
}

type fakeRefreshRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{rows: make(map[uuid.UUID]*domain.RefreshToken)}
}

func (r *fakeRefreshRepo) Create(ctx context.Context, t *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[t.JTI] = t
	return nil
}
func (r *fakeRefreshRepo) GetByJTI(ctx context.Context, jti uuid.UUID, aliveOnly bool) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[jti]
	if !ok {
		return nil, nil
	}
	if aliveOnly && !t.IsAlive(time.Now().UTC()) {
		return nil, nil
	}
	return t, nil
}
func (r *fakeRefreshRepo) Revoke(ctx context.Context, jti uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[jti]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	return true, nil
}
func (r *fakeRefreshRepo) SetAccessTokenID(ctx context.Context, refreshJTI, accessJTI uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.rows[refreshJTI]
	if !ok {
		return nil
	}
	t.AccessTokenID = accessJTI
	return nil
}
func (r *fakeRefreshRepo) RevokeForUser(ctx context.Context, userID uuid.UUID, realm domain.Realm, code string, exceptJTI uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.rows {
		if t.UserID == userID && t.Realm == realm && t.BusinessCode == code && t.JTI != exceptJTI && !t.Revoked {
			t.Revoked = true
			n++
		}
	}
	return n, nil
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []string
}

func (s *fakeSMS) SendOTP(ctx context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, phone+":"+code)
	return nil
}

type fixedOTPGenerator struct{ code string }

func (g fixedOTPGenerator) Generate(length int) string { return g.code }

type fixedCodeGenerator struct {
	business string
	qr       string
}

func (g fixedCodeGenerator) BusinessCode() string { return g.business }
func (g fixedCodeGenerator) QRCode() string       { return g.qr }

type noopEvents struct{}

func (noopEvents) Publish(ctx context.Context, event ports.Event) error { return nil }

type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...ports.Field)    {}
func (noopLogger) Info(msg string, fields ...ports.Field)     {}
func (noopLogger) Warn(msg string, fields ...ports.Field)     {}
func (noopLogger) Error(msg string, fields ...ports.Field)    {}
func (l noopLogger) WithFields(fields ...ports.Field) ports.Logger { return l }

type plaintextHasher struct{}

func (plaintextHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (plaintextHasher) Compare(password, hash string) error {
	if "hashed:"+password != hash {
		return errMismatch
	}
	return nil
}

var errMismatch = errors.New("password mismatch")

// Package cache implements the Cache Read-Through algorithm over the
// cacheable.Keyed protocol: WithCache, CacheEntity, and Invalidate.
//
// Grounded in original_source/app/mixins/cache.py's RedisCacheMixin
// (cache_get/cache_set/cache_delete/with_cache) and cacheable.py's
// canonical/reference key derivation — reimplemented here as a generic Go
// function over ports.Cache instead of a Python mixin, and JSON instead of
// pickle for the serialized form.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vitalya420/loyalty-auth-core/internal/cacheable"
	"github.com/vitalya420/loyalty-auth-core/internal/ports"
)

// DefaultTTL is the default time-to-live for cached entities (§4.2).
const DefaultTTL = time.Hour

// Keyed constrains a type parameter T to a pointer type PT that implements
// cacheable.Keyed — the idiomatic Go shape for "entity struct + pointer
// receiver methods" used as a generic constraint.
type Keyed[T any] interface {
	*T
	cacheable.Keyed
}

// WithCache implements operation with_cache(class, lookup_value, loader, …).
//
// canonicalKey and referenceKeys are the class-level derivations for the
// lookup value in hand (UserCanonicalKey(id), UserReferenceKeyByPhone(phone),
// etc. — the Go equivalent of canonical_key_for/reference_keys_for).
// loader is invoked on a full miss; its result, if non-nil, is cached
// before being returned.
//
// Cache failures (anything other than a clean miss) are treated here as a
// miss and are not logged: the store is authoritative, the cache is
// best-effort.
func WithCache[T any, PT Keyed[T]](ctx context.Context, c ports.Cache, canonicalKey string, referenceKeys []string, loader func(ctx context.Context) (PT, error)) (PT, error) {
	if entity, ok := tryLoad[T, PT](ctx, c, canonicalKey); ok {
		return entity, nil
	}

	for _, ref := range referenceKeys {
		raw, err := c.Get(ctx, ref)
		if err != nil || len(raw) == 0 {
			continue
		}
		if entity, ok := tryLoad[T, PT](ctx, c, string(raw)); ok {
			return entity, nil
		}
	}

	entity, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, nil
	}
	_ = CacheEntity[T](ctx, c, entity, DefaultTTL)
	return entity, nil
}

func tryLoad[T any, PT Keyed[T]](ctx context.Context, c ports.Cache, key string) (PT, bool) {
	raw, err := c.Get(ctx, key)
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false
	}
	return PT(&value), true
}

// CacheEntity implements operation cache-entity(e, ttl): write the canonical
// key, then every reference key pointing back at it.
func CacheEntity[T any, PT Keyed[T]](ctx context.Context, c ports.Cache, entity PT, ttl time.Duration) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("serialize cache entity: %w", err)
	}
	canonical := entity.CanonicalKey()
	if err := c.Set(ctx, canonical, data, ttl); err != nil {
		return err
	}
	for _, ref := range entity.ReferenceKeys() {
		if err := c.Set(ctx, ref, []byte(canonical), ttl); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate implements operation invalidate(e): delete the canonical key
// and every reference key. Idempotent on deletion.
func Invalidate[T any, PT Keyed[T]](ctx context.Context, c ports.Cache, entity PT) error {
	keys := append([]string{entity.CanonicalKey()}, entity.ReferenceKeys()...)
	return c.Delete(ctx, keys...)
}

// InvalidateKey deletes a single canonical key without an entity in hand —
// used when the caller only has the lookup value (e.g. a jti) and no
// reference keys apply.
func InvalidateKey(ctx context.Context, c ports.Cache, canonicalKey string) error {
	return c.Delete(ctx, canonicalKey)
}

// Package external provides adapters for capabilities the domain and
// application layers treat as ports: password hashing, OTP/code generation,
// phone normalization, and the SMS sink.
package external

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
)

// BcryptPasswordHasher implements ports.PasswordHasher using bcrypt.
//
// SECURITY: Why bcrypt?
// =====================
// - Designed specifically for password hashing
// - Has built-in salting
// - Configurable work factor (cost)
// - Resistant to rainbow table attacks
// - Slow by design (makes brute force attacks expensive)
//
// bcrypt is CPU-bound, so Hash/Compare run on a bounded worker pool rather
// than inline on the calling goroutine — a burst of login attempts must not
// starve the HTTP server's scheduler of OS threads.
type BcryptPasswordHasher struct {
	cost int
	pool *WorkerPool
}

// NewBcryptPasswordHasher creates a new password hasher that runs its bcrypt
// work on pool. Cost of 12 is recommended for most applications;
// 14+ for high-security deployments.
func NewBcryptPasswordHasher(cost int, pool *WorkerPool) *BcryptPasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost, pool: pool}
}

// Hash generates a bcrypt hash of the password on the worker pool.
func (h *BcryptPasswordHasher) Hash(password string) (string, error) {
	result, err := h.pool.Do(context.Background(), func() (interface{}, error) {
		bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
		if err != nil {
			return "", fmt.Errorf("hash password: %w", err)
		}
		return string(bytes), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Compare checks if a password matches a hash on the worker pool.
// Returns nil if they match, error otherwise.
func (h *BcryptPasswordHasher) Compare(password, hash string) error {
	_, err := h.pool.Do(context.Background(), func() (interface{}, error) {
		return nil, bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	})
	return err
}

// WorkerPool bounds concurrent CPU-bound work (bcrypt today) to the size
// given to NewWorkerPool (GOMAXPROCS when that size is <= 0), so request
// bursts degrade to queueing rather than to thread/scheduler thrash.
type WorkerPool struct {
	sem chan struct{}
}

// NewWorkerPool creates a pool with the given concurrency. size <= 0 falls
// back to runtime.GOMAXPROCS(0).
func NewWorkerPool(size int) *WorkerPool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool{sem: make(chan struct{}, size)}
}

type jobResult struct {
	value interface{}
	err   error
}

// Do runs fn on the pool, blocking the caller until a slot is free or ctx
// is cancelled. It is safe to call concurrently.
func (p *WorkerPool) Do(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.sem }()

	resultCh := make(chan jobResult, 1)
	go func() {
		v, err := fn()
		resultCh <- jobResult{value: v, err: err}
	}()

	select {
	case r := <-resultCh:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

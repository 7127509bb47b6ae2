package cache

import (
	"context"
	"strings"
)

// ExecutorFunc is the function signature for the operation CacheMiddleware wraps.
type ExecutorFunc func(ctx context.Context, operationID string, input any) ([]byte, error)

// SkipRule determines whether to skip caching for a given operation.
// Returns true if caching should be skipped.
type SkipRule func(operationID string, tags []string) bool

// UnsafeTags are tags that indicate an operation has side effects and should not be cached.
var UnsafeTags = []string{"write", "danger", "unsafe", "mutation", "delete"}

// DefaultSkipRule skips caching for operations with unsafe tags.
// Tag matching is case-insensitive.
func DefaultSkipRule(_ string, tags []string) bool {
	for _, tag := range tags {
		tagLower := strings.ToLower(tag)
		for _, unsafe := range UnsafeTags {
			if tagLower == unsafe {
				return true
			}
		}
	}
	return false
}

// CacheMiddleware wraps a keyed operation with caching. Not currently used
// by this module's MCP path, which calls Cache/Policy directly instead; it
// is available for any future caller whose operation has a cacheable
// result and an unsafe-tag set worth honoring.
type CacheMiddleware struct {
	cache    Cache
	keyer    Keyer
	policy   Policy
	skipRule SkipRule
}

// NewCacheMiddleware creates a new cache middleware.
// If skipRule is nil, DefaultSkipRule is used.
func NewCacheMiddleware(cache Cache, keyer Keyer, policy Policy, skipRule SkipRule) *CacheMiddleware {
	if skipRule == nil {
		skipRule = DefaultSkipRule
	}
	return &CacheMiddleware{
		cache:    cache,
		keyer:    keyer,
		policy:   policy,
		skipRule: skipRule,
	}
}

// Execute runs the operation with caching.
// On cache hit, returns cached result without calling executor.
// On cache miss, calls executor and caches the result.
// Errors are NOT cached.
func (m *CacheMiddleware) Execute(
	ctx context.Context,
	operationID string,
	input any,
	tags []string,
	executor ExecutorFunc,
) ([]byte, error) {
	// Check if caching should be skipped
	if !m.policy.AllowUnsafe && m.skipRule(operationID, tags) {
		// Skip caching - execute directly
		return executor(ctx, operationID, input)
	}

	// Check if caching is enabled by policy
	if !m.policy.ShouldCache() {
		return executor(ctx, operationID, input)
	}

	// Generate cache key
	key, err := m.keyer.Key(operationID, input)
	if err != nil {
		// Key generation failed - execute without caching
		return executor(ctx, operationID, input)
	}

	// Check cache
	if cached, ok := m.cache.Get(ctx, key); ok {
		return cached, nil
	}

	// Cache miss - execute
	result, err := executor(ctx, operationID, input)
	if err != nil {
		// Don't cache errors
		return result, err
	}

	// Cache the result
	ttl := m.policy.EffectiveTTL(0)
	if ttl > 0 {
		_ = m.cache.Set(ctx, key, result, ttl)
	}

	return result, nil
}

// Package cache provides deterministic caching, used in this module for
// MCP negotiated-capability reuse: a server's capability set doesn't change
// between a connection manager's reconnect attempts, so re-negotiating it
// on every recovery cycle is wasted round trips. mcp.Manager stores a
// server's negotiated capabilities under CapabilityCachePolicy and reuses
// them until the policy's TTL lapses.
//
// # Ecosystem Position
//
// cache sits inside the MCP connection manager, between a fresh dial and
// capability negotiation:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                 MCP Capability Negotiation Flow                 │
//	├─────────────────────────────────────────────────────────────────┤
//	│                                                                 │
//	│   mcp.Manager          cache              MCP Server             │
//	│   ┌──────────┐      ┌─────────┐          ┌─────────┐            │
//	│   │  Create  │─────▶│  Cache  │   miss   │Negotiate│            │
//	│   │Connection│      │  Get    │─────────▶│         │            │
//	│   └──────────┘      │         │          └─────────┘            │
//	│       ▲             │ ┌─────┐ │              │                   │
//	│       │             │ │Policy│ │              │                   │
//	│       │    hit      │ └─────┘ │   store       │                   │
//	│       └─────────────│         │◀──────────────┘                   │
//	│                     └─────────┘                                 │
//	│                                                                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Core Components
//
//   - [Cache]: Interface for caching arbitrary byte-slice values (Get/Set/Delete)
//   - [MemoryCache]: Thread-safe in-memory cache with TTL support
//   - [Keyer]: Interface for deterministic cache key generation
//   - [DefaultKeyer]: SHA-256 based keyer with canonical JSON serialization
//   - [Policy]: Configures TTL defaults, maximums, and unsafe-tag handling
//   - [CacheMiddleware]: Transparent caching wrapper around any keyed operation
//
// # Quick Start
//
//	// Negotiated capabilities reuse a short, redeploy-tolerant TTL
//	policy := cache.CapabilityCachePolicy() // 2min default, 10min max
//	memCache := cache.NewMemoryCache(policy)
//
//	managerConfig := mcp.ManagerConfig{
//	    CapabilityCache: memCache,
//	    CachePolicy:     policy,
//	}
//
// # Key Generation
//
// The [DefaultKeyer] generates deterministic cache keys using:
//
//	cache:<id>:<hash>
//
// Where hash is the first 16 hex characters of SHA-256(canonical JSON(input)).
// Canonical JSON ensures map keys are sorted for deterministic serialization.
// mcp.Manager itself uses a simpler "mcp:capabilities:<server>" key directly,
// since the server name alone is already a stable, unique identifier.
//
// # TTL Policies
//
// The [Policy] type controls caching behavior:
//
//   - DefaultTTL: Applied when no specific TTL is provided
//   - MaxTTL: Upper bound for any TTL (prevents excessive caching)
//   - AllowUnsafe: Whether CacheMiddleware may cache operations tagged unsafe
//
// Preset policies:
//
//   - [DefaultPolicy]: 5 minute default, 1 hour max, unsafe=false
//   - [CapabilityCachePolicy]: 2 minute default, 10 minute max — tuned so a
//     recovery-loop reconnect inside the window skips re-negotiation, while
//     a redeployed server's changed capabilities are still picked up within
//     minutes
//   - [NoCachePolicy]: Disabled (0 TTL)
//
// # Unsafe Tag Handling
//
// [CacheMiddleware] is a general-purpose caching wrapper not currently used
// by this module's MCP path (which calls Cache/Policy directly instead).
// It still enforces the unsafe-tag skip rule for any caller that does wrap
// a side-effecting operation with it:
//
//   - write, danger, unsafe, mutation, delete
//
// The [DefaultSkipRule] checks for these tags (case-insensitive) and skips
// caching. Override via [NewCacheMiddleware]'s skipRule parameter.
//
// # Thread Safety
//
// All exported types are safe for concurrent use:
//
//   - [MemoryCache]: sync.RWMutex protects all operations
//   - [DefaultKeyer]: Stateless, concurrent-safe
//   - [CacheMiddleware]: Delegates to thread-safe Cache/Keyer
//   - [Policy]: Immutable struct, concurrent-safe
//
// # Error Handling
//
// Sentinel errors (use errors.Is for checking):
//
//   - [ErrNilCache]: Cache is nil
//   - [ErrInvalidKey]: Key is empty, whitespace-only, or contains newlines
//   - [ErrKeyTooLong]: Key exceeds MaxKeyLength (512 characters)
//
// Note: Cache.Get never returns errors - it returns (nil, false) on miss.
// Key validation is performed via [ValidateKey] function.
//
// # Integration
//
//   - mcp: CapabilityCache/CachePolicy reuse negotiated capabilities across reconnects
//   - observe: Log cache hits/misses via observability middleware
//   - resilience: Combine with retry/bulkhead for a robust negotiation path
package cache

package mcp

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TransportKind identifies the wire protocol used to reach an MCP server.
type TransportKind string

const (
	TransportSTDIO     TransportKind = "stdio"
	TransportHTTP      TransportKind = "http"
	TransportWebSocket TransportKind = "websocket"
)

// ServerConfig describes one external MCP server. It is immutable after
// registration — the recovery loop replays it verbatim on every
// reconnection attempt.
type ServerConfig struct {
	Name       string
	URL        string
	Transport  TransportKind
	Timeout    time.Duration
	MaxRetries int
	Auth       map[string]string
}

func (c ServerConfig) setDefaults() ServerConfig {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	return c
}

// Status is the lifecycle state of a Connection.
type Status int

const (
	StatusConnecting Status = iota
	StatusConnected
	StatusReconnecting
	StatusFailed
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusFailed:
		return "failed"
	case StatusDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// ConnectionMetrics tracks pool-level counters for one server.
type ConnectionMetrics struct {
	Active             int
	Idle               int
	Failed             int
	TotalCreated       int64
	TotalDestroyed     int64
	CircuitBreakerOpen bool
	LastCircuitOpen    time.Time
}

// Connection is one live (or recently live) link to an MCP server.
// Ownership is exclusive: at any instant it belongs to exactly one of the
// server's available pool, a caller that checked it out, or the server's
// failed-connections recovery queue. It is never silently dropped from all
// three.
type Connection struct {
	ID         string
	ServerName string

	mu                   sync.Mutex
	transport            Transport
	status               Status
	createdAt            time.Time
	lastUsed             time.Time
	sessionID            string
	capabilities         map[string]any
	retryCount           int
	lastFailure          time.Time
	consecutiveFailures  int
	recoveryBackoffDelay time.Duration
	maxRecoveryAttempts  int
}

func (c *Connection) snapshot() connectionSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return connectionSnapshot{
		Status:               c.status,
		CreatedAt:            c.createdAt,
		LastUsed:             c.lastUsed,
		SessionID:            c.sessionID,
		RetryCount:           c.retryCount,
		LastFailure:          c.lastFailure,
		ConsecutiveFailures:  c.consecutiveFailures,
		RecoveryBackoffDelay: c.recoveryBackoffDelay,
	}
}

// connectionSnapshot is a point-in-time, lock-free copy of a Connection's
// bookkeeping fields, safe to read after the lock is released.
type connectionSnapshot struct {
	Status               Status
	CreatedAt            time.Time
	LastUsed             time.Time
	SessionID            string
	RetryCount           int
	LastFailure          time.Time
	ConsecutiveFailures  int
	RecoveryBackoffDelay time.Duration
}

func (c *Connection) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

func (c *Connection) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// pingFn returns a breaker-callable closure over this connection's
// transport, without holding c's lock across the call itself.
func (c *Connection) pingFn() func(context.Context) error {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	return t.Ping
}

// closeTransport closes the underlying transport, if any. It does not guard
// against repeated calls: each call closes the transport again.
func (c *Connection) closeTransport() error {
	c.mu.Lock()
	t := c.transport
	c.mu.Unlock()
	if t == nil {
		return nil
	}
	return t.Close()
}

// newConnectionID generates a unique identifier for a new Connection.
func newConnectionID() string { return uuid.NewString() }

// jitter returns a random duration in [0, d).
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(d)))
}

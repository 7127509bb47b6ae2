package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/netra-systems/agentfabric/cache"
	"github.com/netra-systems/agentfabric/circuit"
	"github.com/netra-systems/agentfabric/observe"
	"github.com/netra-systems/agentfabric/resilience"
	"github.com/netra-systems/agentfabric/secret"
)

const (
	initialRecoveryBackoff = 1 * time.Second
	maxRecoveryBackoff     = 60 * time.Second
	shutdownGrace          = 5 * time.Second
)

// ManagerConfig configures a Manager. Zero values resolve to the same
// defaults the connection-manager-per-server pooling model uses
// everywhere: 10 connections max, 1 minimum, 30s health checks, 10s
// recovery sweeps, a 5-failure/60s breaker per server.
type ManagerConfig struct {
	MaxConnectionsPerServer int
	MinConnectionsPerServer int
	HealthCheckInterval     time.Duration
	RecoveryInterval        time.Duration
	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration
	MaxRecoveryAttempts     int

	// MaxConcurrentCreates bounds how many connections a single pool-refill
	// pass may create in parallel for one server.
	MaxConcurrentCreates int64

	// MaxConcurrentConnects bounds total in-flight connection attempts
	// across every server at once.
	MaxConcurrentConnects int

	Transports map[TransportKind]TransportFactory
	Registry   *circuit.Registry
	Logger     observe.Logger
	Tracer     observe.Tracer

	// SecretResolver resolves ServerConfig.Auth values before a connection
	// is dialed. Nil means Auth is passed through unresolved.
	SecretResolver *secret.Resolver

	// CapabilityCache and CachePolicy govern negotiated-capability reuse
	// across reconnects to the same server. A nil CapabilityCache disables
	// caching.
	CapabilityCache cache.Cache
	CachePolicy     cache.Policy
}

func (c *ManagerConfig) setDefaults() {
	if c.MaxConnectionsPerServer <= 0 {
		c.MaxConnectionsPerServer = 10
	}
	if c.MinConnectionsPerServer <= 0 {
		c.MinConnectionsPerServer = 1
	}
	if c.HealthCheckInterval <= 0 {
		c.HealthCheckInterval = 30 * time.Second
	}
	if c.RecoveryInterval <= 0 {
		c.RecoveryInterval = 10 * time.Second
	}
	if c.CircuitBreakerTimeout <= 0 {
		c.CircuitBreakerTimeout = 60 * time.Second
	}
	if c.MaxRecoveryAttempts <= 0 {
		c.MaxRecoveryAttempts = 10
	}
	if c.MaxConcurrentCreates <= 0 {
		c.MaxConcurrentCreates = 4
	}
	if c.MaxConcurrentConnects <= 0 {
		c.MaxConcurrentConnects = 20
	}
	if c.Transports == nil {
		c.Transports = DefaultTransportFactories()
	}
	if c.Registry == nil {
		c.Registry = circuit.NewRegistry()
	}
	if c.Logger == nil {
		c.Logger = observe.NewNoopLogger()
	}
	if c.CapabilityCache != nil && c.CachePolicy == (cache.Policy{}) {
		c.CachePolicy = cache.CapabilityCachePolicy()
	}
}

// serverState is the pool and bookkeeping for one registered server.
type serverState struct {
	mu      sync.Mutex
	config  ServerConfig
	pool    chan *Connection
	failed  []*Connection
	metrics ConnectionMetrics
	breaker *circuit.Breaker
}

// PoolStatus is the available/capacity shape of one server's pool.
type PoolStatus struct {
	Available int
	Capacity  int
}

// ServerStatus is a point-in-time snapshot of one server's connection
// state, suitable for exposing over a status endpoint.
type ServerStatus struct {
	Config              ServerConfig
	Pool                PoolStatus
	FailedConnections   int
	Metrics             ConnectionMetrics
	CircuitBreakerState circuit.State
	HealthStatus        string
}

// Manager owns one bounded connection pool per MCP server: it creates,
// health-checks, retires and recovers connections, coupling each server's
// pool to its own circuit breaker so a misbehaving server degrades in
// isolation instead of starving the others.
type Manager struct {
	config    ManagerConfig
	transport map[TransportKind]TransportFactory
	breakers  *circuit.Registry
	logger    observe.Logger
	tracer    observe.Tracer
	bulkhead  *resilience.Bulkhead

	mu      sync.RWMutex
	servers map[string]*serverState

	lifecycleMu  sync.Mutex
	shuttingDown bool
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewManager builds a Manager. It does not start background loops; call
// Start for that.
func NewManager(config ManagerConfig) *Manager {
	config.setDefaults()
	return &Manager{
		config:    config,
		transport: config.Transports,
		breakers:  config.Registry,
		logger:    config.Logger,
		tracer:    config.Tracer,
		bulkhead:  resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: config.MaxConcurrentConnects}),
		servers:   make(map[string]*serverState),
	}
}

func breakerName(server string) string { return fmt.Sprintf("mcp:%s", server) }

// startSpan opens a span for a pool operation if a Tracer was configured;
// otherwise it returns ctx unchanged and a nil span.
func (m *Manager) startSpan(ctx context.Context, name, server string) (context.Context, trace.Span) {
	if m.tracer == nil {
		return ctx, nil
	}
	return m.tracer.StartSpan(ctx, observe.OperationMeta{
		Component: "mcp",
		Name:      name,
		Category:  "pool",
		Tags:      []string{server},
	})
}

func (m *Manager) endSpan(span trace.Span, err error) {
	if m.tracer == nil || span == nil {
		return
	}
	m.tracer.EndSpan(span, err)
}

func (m *Manager) getOrInitServer(config ServerConfig) *serverState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ss, ok := m.servers[config.Name]; ok {
		return ss
	}

	breaker := m.breakers.GetOrCreate(breakerName(config.Name), circuit.Config{
		FailureThreshold: m.config.CircuitBreakerThreshold,
		RecoveryTimeout:  m.config.CircuitBreakerTimeout,
		CallTimeout:      config.setDefaults().Timeout,
	})
	ss := &serverState{
		config:  config,
		pool:    make(chan *Connection, m.config.MaxConnectionsPerServer),
		breaker: breaker,
	}
	m.servers[config.Name] = ss
	return ss
}

func (m *Manager) requireServer(name string) *serverState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.servers[name]
}

func (m *Manager) snapshotServers() map[string]*serverState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*serverState, len(m.servers))
	for name, ss := range m.servers {
		out[name] = ss
	}
	return out
}

// Register records a server's configuration and prepares its pool, breaker
// and failed-connection queue without dialing anything yet.
func (m *Manager) Register(config ServerConfig) {
	m.getOrInitServer(config.setDefaults())
}

func (m *Manager) resolveAuth(ctx context.Context, config ServerConfig) (ServerConfig, error) {
	if m.config.SecretResolver == nil || len(config.Auth) == 0 {
		return config, nil
	}
	resolved, err := m.config.SecretResolver.ResolveMap(ctx, config.Auth)
	if err != nil {
		return config, fmt.Errorf("mcp: resolve auth for %s: %w", config.Name, err)
	}
	config.Auth = resolved
	return config, nil
}

func (m *Manager) capabilityCacheKey(server string) string { return "mcp:capabilities:" + server }

func (m *Manager) loadCachedCapabilities(ctx context.Context, server string) (map[string]any, bool) {
	if m.config.CapabilityCache == nil {
		return nil, false
	}
	data, ok := m.config.CapabilityCache.Get(ctx, m.capabilityCacheKey(server))
	if !ok {
		return nil, false
	}
	var caps map[string]any
	if err := json.Unmarshal(data, &caps); err != nil {
		return nil, false
	}
	return caps, true
}

func (m *Manager) storeCachedCapabilities(ctx context.Context, server string, caps map[string]any) {
	if m.config.CapabilityCache == nil || !m.config.CachePolicy.ShouldCache() {
		return
	}
	data, err := json.Marshal(caps)
	if err != nil {
		return
	}
	ttl := m.config.CachePolicy.EffectiveTTL(0)
	_ = m.config.CapabilityCache.Set(ctx, m.capabilityCacheKey(server), data, ttl)
}

// CreateConnection dials config's server, negotiates a session, and
// returns a fully CONNECTED Connection. It does not place the connection
// in any pool — callers (including the recovery and refill loops) decide
// where it lands.
func (m *Manager) CreateConnection(ctx context.Context, config ServerConfig) (conn *Connection, err error) {
	ctx, span := m.startSpan(ctx, "create_connection", config.Name)
	defer func() { m.endSpan(span, err) }()

	config = config.setDefaults()
	ss := m.getOrInitServer(config)

	factory, ok := m.transport[config.Transport]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTransport, config.Transport)
	}

	resolved, err := m.resolveAuth(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := m.bulkhead.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("mcp: %s: %w", config.Name, err)
	}
	defer m.bulkhead.Release()

	tport, err := factory(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionSetup, err)
	}

	conn = &Connection{
		ID:                   newConnectionID(),
		ServerName:           config.Name,
		transport:            tport,
		status:               StatusConnecting,
		createdAt:            time.Now(),
		lastUsed:             time.Now(),
		recoveryBackoffDelay: initialRecoveryBackoff,
		maxRecoveryAttempts:  m.config.MaxRecoveryAttempts,
	}

	connectErr := ss.breaker.Execute(ctx, tport.Connect)
	if connectErr != nil {
		conn.setStatus(StatusFailed)
		return nil, fmt.Errorf("%w: %v", ErrConnectionSetup, connectErr)
	}

	sessionID, err := m.negotiateWithRetry(ctx, config, tport)
	if err != nil {
		conn.setStatus(StatusFailed)
		_ = tport.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnectionSetup, err)
	}

	conn.mu.Lock()
	conn.status = StatusConnected
	conn.sessionID = sessionID
	conn.mu.Unlock()

	if cached, ok := m.loadCachedCapabilities(ctx, config.Name); ok {
		conn.mu.Lock()
		conn.capabilities = cached
		conn.mu.Unlock()
	} else {
		caps := map[string]any{"session_id": sessionID, "negotiated_at": time.Now().Format(time.RFC3339)}
		conn.mu.Lock()
		conn.capabilities = caps
		conn.mu.Unlock()
		m.storeCachedCapabilities(ctx, config.Name, caps)
	}

	ss.mu.Lock()
	ss.metrics.TotalCreated++
	ss.mu.Unlock()

	m.logger.Info(ctx, "mcp connection created",
		observe.Field{Key: "server", Value: config.Name},
		observe.Field{Key: "connection_id", Value: conn.ID})

	return conn, nil
}

// negotiateWithRetry retries Negotiate per config.MaxRetries, bounded
// overall by config.Timeout so a stuck negotiation can't hang recovery
// forever.
func (m *Manager) negotiateWithRetry(ctx context.Context, config ServerConfig, tport Transport) (string, error) {
	retry := resilience.NewRetry(resilience.RetryConfig{
		MaxAttempts:  config.MaxRetries,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     config.Timeout,
	})
	timeout := resilience.NewTimeout(resilience.TimeoutConfig{Timeout: config.Timeout})

	var sessionID string
	err := timeout.Execute(ctx, func(callCtx context.Context) error {
		return retry.Execute(callCtx, func(attemptCtx context.Context) error {
			id, err := tport.Negotiate(attemptCtx)
			if err != nil {
				return err
			}
			sessionID = id
			return nil
		})
	})
	return sessionID, err
}

// GetConnection pops an available connection from server's pool, or
// returns (nil, false) if the pool is empty (whether because every
// connection is checked out, failed, or the breaker is open).
func (m *Manager) GetConnection(serverName string) (*Connection, bool) {
	ss := m.requireServer(serverName)
	if ss == nil {
		return nil, false
	}
	select {
	case conn := <-ss.pool:
		conn.mu.Lock()
		conn.lastUsed = time.Now()
		conn.mu.Unlock()
		ss.mu.Lock()
		ss.metrics.Idle--
		ss.metrics.Active++
		ss.mu.Unlock()
		return conn, true
	default:
		return nil, false
	}
}

// ReleaseConnection returns conn to its server's pool if a health check
// passes, or routes it to the failed-connections recovery queue if not.
func (m *Manager) ReleaseConnection(ctx context.Context, conn *Connection) {
	ss := m.requireServer(conn.ServerName)
	if ss == nil {
		return
	}

	ss.mu.Lock()
	ss.metrics.Active--
	ss.mu.Unlock()

	if m.HealthCheck(ctx, conn) {
		ss.mu.Lock()
		ss.metrics.Idle++
		ss.mu.Unlock()
		select {
		case ss.pool <- conn:
		default:
			// Pool already holds Capacity connections; drop the checkout
			// discipline violation rather than block the releasing caller.
			ss.mu.Lock()
			ss.metrics.Idle--
			ss.mu.Unlock()
			m.handleFailure(ctx, ss, conn)
		}
		return
	}

	m.handleFailure(ctx, ss, conn)
}

// ReportFailure lets a caller that discovered a mid-use protocol failure
// (one the pool never observed directly) report it, so the breaker and
// recovery queue reflect reality.
func (m *Manager) ReportFailure(ctx context.Context, conn *Connection, cause error) {
	ss := m.requireServer(conn.ServerName)
	if ss == nil {
		return
	}
	_ = ss.breaker.Execute(ctx, func(context.Context) error { return cause })

	ss.mu.Lock()
	ss.metrics.Active--
	ss.mu.Unlock()

	m.handleFailure(ctx, ss, conn)
}

// HealthCheck pings conn through its server's breaker. It never holds ss's
// lock across the ping.
func (m *Manager) HealthCheck(ctx context.Context, conn *Connection) bool {
	if conn.Status() != StatusConnected {
		return false
	}
	ss := m.requireServer(conn.ServerName)
	if ss == nil {
		return false
	}

	ctx, span := m.startSpan(ctx, "health_check", conn.ServerName)
	err := ss.breaker.Execute(ctx, conn.pingFn())
	m.endSpan(span, err)
	if err != nil {
		m.logger.Warn(ctx, "mcp health check failed",
			observe.Field{Key: "connection_id", Value: conn.ID},
			observe.Field{Key: "server", Value: conn.ServerName},
			observe.Field{Key: "error", Value: err.Error()})
		return false
	}
	return true
}

// handleFailure closes conn's transport, marks it FAILED, and files it in
// the server's recovery queue. A connection is never dropped outright:
// it is always in the pool, checked out, or here.
func (m *Manager) handleFailure(ctx context.Context, ss *serverState, conn *Connection) {
	_ = conn.closeTransport()

	conn.mu.Lock()
	conn.status = StatusFailed
	conn.consecutiveFailures++
	conn.lastFailure = time.Now()
	conn.mu.Unlock()

	ss.mu.Lock()
	ss.metrics.TotalDestroyed++
	ss.metrics.Failed++
	ss.failed = append(ss.failed, conn)
	ss.mu.Unlock()

	m.logger.Warn(ctx, "mcp connection failed",
		observe.Field{Key: "connection_id", Value: conn.ID},
		observe.Field{Key: "server", Value: conn.ServerName})
}

func (m *Manager) bumpBackoff(conn *Connection) {
	conn.mu.Lock()
	defer conn.mu.Unlock()

	conn.retryCount++
	conn.lastFailure = time.Now()

	if conn.retryCount > conn.maxRecoveryAttempts {
		// Not abandoned: parked at the backoff ceiling, retried forever.
		conn.retryCount = 0
		conn.recoveryBackoffDelay = maxRecoveryBackoff
		return
	}

	next := conn.recoveryBackoffDelay * 2
	if next > maxRecoveryBackoff || next <= 0 {
		next = maxRecoveryBackoff
	}
	next += jitter(next)
	if next > maxRecoveryBackoff {
		next = maxRecoveryBackoff
	}
	conn.recoveryBackoffDelay = next
}

// recoveryTick sweeps every server's failed-connections queue once.
func (m *Manager) recoveryTick(ctx context.Context) {
	for name, ss := range m.snapshotServers() {
		m.recoverServer(ctx, name, ss)
	}
}

func (m *Manager) recoverServer(ctx context.Context, name string, ss *serverState) {
	ss.mu.Lock()
	if len(ss.failed) == 0 {
		ss.mu.Unlock()
		return
	}
	if ss.breaker.State() == circuit.StateOpen {
		ss.mu.Unlock()
		return
	}
	oldest := ss.failed[0]
	config := ss.config
	ss.mu.Unlock()

	snap := oldest.snapshot()
	if time.Since(snap.LastFailure) < snap.RecoveryBackoffDelay {
		return
	}

	newConn, err := m.CreateConnection(ctx, config)
	if err != nil {
		m.bumpBackoff(oldest)
		m.logger.Warn(ctx, "mcp recovery attempt failed",
			observe.Field{Key: "server", Value: name},
			observe.Field{Key: "error", Value: err.Error()})
		return
	}

	select {
	case ss.pool <- newConn:
	default:
		_ = newConn.closeTransport()
		return
	}

	ss.breaker.Reset()
	ss.mu.Lock()
	// A recovered server invalidates every other queued failure too: they
	// were all observed under the same outage and are now stale.
	ss.failed = nil
	ss.metrics.Idle++
	ss.mu.Unlock()

	m.logger.Info(ctx, "mcp connection recovered",
		observe.Field{Key: "server", Value: name},
		observe.Field{Key: "connection_id", Value: newConn.ID})
}

// healthTick pings every idle connection in every pool, retires the ones
// that fail, and tops pools back up to the configured minimum.
func (m *Manager) healthTick(ctx context.Context) {
	for name, ss := range m.snapshotServers() {
		m.healthCheckServer(ctx, name, ss)
	}
}

func (m *Manager) healthCheckServer(ctx context.Context, name string, ss *serverState) {
	drained := drainPool(ss.pool)

	for _, conn := range drained {
		if m.HealthCheck(ctx, conn) {
			select {
			case ss.pool <- conn:
			default:
				_ = conn.closeTransport()
			}
			continue
		}
		ss.mu.Lock()
		ss.metrics.Idle--
		ss.mu.Unlock()
		m.handleFailure(ctx, ss, conn)
	}

	ss.mu.Lock()
	current := len(ss.pool)
	needed := m.config.MinConnectionsPerServer - current
	failedCount := len(ss.failed)
	config := ss.config
	ss.mu.Unlock()

	if needed > 0 {
		m.refillPool(ctx, config, needed)
	}

	ss.mu.Lock()
	empty := len(ss.pool) == 0
	ss.mu.Unlock()
	if empty && failedCount > 0 {
		m.forceRecoveryServer(ctx, name, ss)
	}
}

func drainPool(pool chan *Connection) []*Connection {
	out := make([]*Connection, 0, len(pool))
	for {
		select {
		case conn := <-pool:
			out = append(out, conn)
		default:
			return out
		}
	}
}

// refillPool creates up to count replacement connections concurrently,
// bounded by MaxConcurrentCreates, and pushes every success into the
// server's pool.
func (m *Manager) refillPool(ctx context.Context, config ServerConfig, count int) {
	ss := m.requireServer(config.Name)
	if ss == nil {
		return
	}

	sem := semaphore.NewWeighted(m.config.MaxConcurrentCreates)
	var wg sync.WaitGroup

	for i := 0; i < count; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			conn, err := m.CreateConnection(ctx, config)
			if err != nil {
				m.logger.Warn(ctx, "mcp pool refill failed",
					observe.Field{Key: "server", Value: config.Name},
					observe.Field{Key: "error", Value: err.Error()})
				return
			}
			select {
			case ss.pool <- conn:
				ss.mu.Lock()
				ss.metrics.Idle++
				ss.mu.Unlock()
			default:
				_ = conn.closeTransport()
			}
		}()
	}
	wg.Wait()
}

// ForceRecoveryAll immediately attempts recovery for every server with
// queued failures, ignoring backoff and resetting each breaker first.
func (m *Manager) ForceRecoveryAll(ctx context.Context) map[string]bool {
	result := make(map[string]bool)
	for name, ss := range m.snapshotServers() {
		result[name] = m.forceRecoveryServer(ctx, name, ss)
	}
	return result
}

// ForceRecovery immediately attempts recovery for one named server.
func (m *Manager) ForceRecovery(ctx context.Context, serverName string) (bool, error) {
	ss := m.requireServer(serverName)
	if ss == nil {
		return false, ErrServerNotConfigured
	}
	return m.forceRecoveryServer(ctx, serverName, ss), nil
}

func (m *Manager) forceRecoveryServer(ctx context.Context, name string, ss *serverState) bool {
	ss.mu.Lock()
	for _, conn := range ss.failed {
		conn.mu.Lock()
		conn.retryCount = 0
		conn.recoveryBackoffDelay = initialRecoveryBackoff
		conn.lastFailure = time.Time{}
		conn.mu.Unlock()
	}
	ss.mu.Unlock()

	ss.breaker.Reset()
	m.recoverServer(ctx, name, ss)

	ss.mu.Lock()
	ok := len(ss.failed) == 0
	ss.mu.Unlock()
	return ok
}

// Start launches the health and recovery loops. It is a no-op if already
// started.
func (m *Manager) Start(ctx context.Context) {
	m.lifecycleMu.Lock()
	defer m.lifecycleMu.Unlock()
	if m.cancel != nil {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(2)
	go m.healthLoop(loopCtx)
	go m.recoveryLoop(loopCtx)
}

func (m *Manager) healthLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.config.HealthCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.healthTick(ctx)
		}
	}
}

func (m *Manager) recoveryLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.config.RecoveryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.recoveryTick(ctx)
		}
	}
}

// Close stops the background loops and drains every pool. Loops get
// shutdownGrace to exit before Close force-returns ErrShutdownTimeout;
// either way every transport the manager still holds gets Close'd.
func (m *Manager) Close(ctx context.Context) error {
	m.lifecycleMu.Lock()
	if m.shuttingDown {
		m.lifecycleMu.Unlock()
		return nil
	}
	m.shuttingDown = true
	cancel := m.cancel
	m.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}

	stopped := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(stopped)
	}()

	var shutdownErr error
	select {
	case <-stopped:
	case <-time.After(shutdownGrace):
		shutdownErr = ErrShutdownTimeout
	}

	for _, ss := range m.snapshotServers() {
		for _, conn := range drainPool(ss.pool) {
			_ = conn.closeTransport()
		}
	}

	return shutdownErr
}

// Status returns a snapshot of every registered server's pool, breaker
// and metrics.
func (m *Manager) Status() map[string]ServerStatus {
	out := make(map[string]ServerStatus)
	for name, ss := range m.snapshotServers() {
		ss.mu.Lock()
		metrics := ss.metrics
		failedCount := len(ss.failed)
		config := ss.config
		ss.mu.Unlock()

		state := ss.breaker.State()
		metrics.CircuitBreakerOpen = state == circuit.StateOpen
		if metrics.CircuitBreakerOpen {
			metrics.LastCircuitOpen = ss.breaker.Status().LastFailure
		}

		available := len(ss.pool)
		health := "degraded"
		switch {
		case available > 0 && state == circuit.StateClosed:
			health = "healthy"
		case state == circuit.StateOpen:
			health = "failed"
		}

		out[name] = ServerStatus{
			Config:              config,
			Pool:                PoolStatus{Available: available, Capacity: cap(ss.pool)},
			FailedConnections:   failedCount,
			Metrics:             metrics,
			CircuitBreakerState: state,
			HealthStatus:        health,
		}
	}
	return out
}

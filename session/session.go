package session

import (
	"context"
	"sync"
	"time"

	"github.com/netra-systems/agentfabric/bridge"
	"github.com/netra-systems/agentfabric/observe"
)

// CleanupReport summarizes the outcome of cleaning up one session's
// agents. Cleanup is always best-effort: a failing agent is logged and
// counted but never stops the rest from being cleaned.
type CleanupReport struct {
	Status        string
	CleanedAgents int
	Errors        []error
}

// UserAgentSession is one user's private runtime: its agents, its own
// Bridge, and nothing reachable from any other session. All mutation
// goes through mu so concurrent callers for the same user never race.
type UserAgentSession struct {
	userID    string
	createdAt time.Time
	logger    observe.Logger
	tracer    observe.Tracer

	mu        sync.Mutex
	agents    map[string]Agent
	wsManager bridge.WebSocketManager
	wsBridge  *bridge.Bridge
}

func newUserAgentSession(userID string, logger observe.Logger, tracer observe.Tracer) *UserAgentSession {
	return &UserAgentSession{
		userID:    userID,
		createdAt: time.Now(),
		logger:    logger,
		tracer:    tracer,
		agents:    make(map[string]Agent),
	}
}

// UserID returns the user this session belongs to.
func (s *UserAgentSession) UserID() string {
	return s.userID
}

// SetWebSocketManager binds mgr to this session and (re)builds its own
// Bridge around it. Each session owns a distinct Bridge instance even
// when every session shares the same underlying manager.
func (s *UserAgentSession) SetWebSocketManager(mgr bridge.WebSocketManager) *bridge.Bridge {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wsManager = mgr
	s.wsBridge = bridge.New(s.userID, mgr, s.logger)
	return s.wsBridge
}

// Bridge returns this session's bridge, creating one bound to a nil
// manager (every event degrades to a no-op) if none was set yet.
func (s *UserAgentSession) Bridge() *bridge.Bridge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wsBridge == nil {
		s.wsBridge = bridge.New(s.userID, s.wsManager, s.logger)
	}
	return s.wsBridge
}

// RegisterAgent stores agent under agentType, replacing any prior agent
// registered under the same type for this session.
func (s *UserAgentSession) RegisterAgent(agentType string, agent Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[agentType] = agent
}

// GetAgent returns the agent registered under agentType, if any.
func (s *UserAgentSession) GetAgent(agentType string) (Agent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[agentType]
	return a, ok
}

// RemoveAgent cleans up and drops the agent registered under agentType.
// Returns false if no such agent was registered.
func (s *UserAgentSession) RemoveAgent(ctx context.Context, agentType string) bool {
	s.mu.Lock()
	agent, ok := s.agents[agentType]
	if ok {
		delete(s.agents, agentType)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.cleanupOne(ctx, agentType, agent)
	return true
}

// AgentCount returns how many agents are currently registered.
func (s *UserAgentSession) AgentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.agents)
}

// Metrics returns a stable-shaped snapshot used by registry health and
// introspection calls.
func (s *UserAgentSession) Metrics() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]any{
		"user_id":     s.userID,
		"agent_count": len(s.agents),
		"created_at":  s.createdAt,
	}
}

func (s *UserAgentSession) cleanupOne(ctx context.Context, agentType string, agent Agent) error {
	var err error
	if c, ok := agent.(CleanupableAgent); ok {
		if cerr := c.Cleanup(ctx); cerr != nil {
			err = cerr
		}
	}
	if c, ok := agent.(CloseableAgent); ok {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil && s.logger != nil {
		s.logger.Error(ctx, "session: agent cleanup failed",
			observe.Field{Key: "user_id", Value: s.userID},
			observe.Field{Key: "agent_type", Value: agentType},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	return err
}

// CleanupAllAgents calls Cleanup/Close on every registered agent,
// best-effort, then drops them all. It is safe to call on an
// already-empty session: a second call returns a zero CleanedAgents
// report rather than erroring.
func (s *UserAgentSession) CleanupAllAgents(ctx context.Context) CleanupReport {
	s.mu.Lock()
	agents := s.agents
	s.agents = make(map[string]Agent)
	s.mu.Unlock()

	report := CleanupReport{Status: "cleaned"}
	for agentType, agent := range agents {
		if err := s.cleanupOne(ctx, agentType, agent); err != nil {
			report.Errors = append(report.Errors, err)
		}
		report.CleanedAgents++
	}
	return report
}

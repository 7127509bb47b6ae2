package session

import (
	"context"
	"errors"
	"testing"
)

type fakeAgent struct {
	cleanupCalls int
	closeCalls   int
	cleanupErr   error
	closeErr     error
}

func (a *fakeAgent) Cleanup(ctx context.Context) error {
	a.cleanupCalls++
	return a.cleanupErr
}

func (a *fakeAgent) Close() error {
	a.closeCalls++
	return a.closeErr
}

func TestUserAgentSession_RegisterAndGetAgent(t *testing.T) {
	s := newUserAgentSession("user-1", nil, nil)
	agent := &fakeAgent{}
	s.RegisterAgent("chat", agent)

	got, ok := s.GetAgent("chat")
	if !ok {
		t.Fatal("GetAgent() ok = false, want true")
	}
	if got != agent {
		t.Error("GetAgent() returned a different instance than was registered")
	}
	if s.AgentCount() != 1 {
		t.Errorf("AgentCount() = %d, want 1", s.AgentCount())
	}
}

func TestUserAgentSession_CleanupAllAgentsCallsCleanupAndClose(t *testing.T) {
	s := newUserAgentSession("user-1", nil, nil)
	a1 := &fakeAgent{}
	a2 := &fakeAgent{}
	s.RegisterAgent("a1", a1)
	s.RegisterAgent("a2", a2)

	report := s.CleanupAllAgents(context.Background())
	if report.CleanedAgents != 2 {
		t.Errorf("CleanedAgents = %d, want 2", report.CleanedAgents)
	}
	if a1.cleanupCalls != 1 || a1.closeCalls != 1 {
		t.Errorf("a1 cleanup/close calls = %d/%d, want 1/1", a1.cleanupCalls, a1.closeCalls)
	}
	if a2.cleanupCalls != 1 || a2.closeCalls != 1 {
		t.Errorf("a2 cleanup/close calls = %d/%d, want 1/1", a2.cleanupCalls, a2.closeCalls)
	}
	if s.AgentCount() != 0 {
		t.Errorf("AgentCount() after cleanup = %d, want 0", s.AgentCount())
	}
}

func TestUserAgentSession_CleanupAllAgentsIsIdempotent(t *testing.T) {
	s := newUserAgentSession("user-1", nil, nil)
	a := &fakeAgent{}
	s.RegisterAgent("a", a)

	first := s.CleanupAllAgents(context.Background())
	second := s.CleanupAllAgents(context.Background())

	if first.CleanedAgents != 1 {
		t.Errorf("first CleanedAgents = %d, want 1", first.CleanedAgents)
	}
	if second.CleanedAgents != 0 {
		t.Errorf("second CleanedAgents = %d, want 0 (double cleanup must be a safe no-op)", second.CleanedAgents)
	}
	if a.cleanupCalls != 1 {
		t.Errorf("cleanupCalls = %d, want 1 (not called again on the second pass)", a.cleanupCalls)
	}
}

func TestUserAgentSession_CleanupAllAgentsIsBestEffort(t *testing.T) {
	s := newUserAgentSession("user-1", nil, nil)
	failing := &fakeAgent{cleanupErr: errors.New("boom")}
	healthy := &fakeAgent{}
	s.RegisterAgent("failing", failing)
	s.RegisterAgent("healthy", healthy)

	report := s.CleanupAllAgents(context.Background())
	if report.CleanedAgents != 2 {
		t.Errorf("CleanedAgents = %d, want 2 (one failure must not stop the rest)", report.CleanedAgents)
	}
	if len(report.Errors) != 1 {
		t.Errorf("len(Errors) = %d, want 1", len(report.Errors))
	}
	if healthy.cleanupCalls != 1 {
		t.Error("expected the healthy agent to still be cleaned up despite the other agent's failure")
	}
}

func TestUserAgentSession_RemoveAgent(t *testing.T) {
	s := newUserAgentSession("user-1", nil, nil)
	a := &fakeAgent{}
	s.RegisterAgent("a", a)

	if !s.RemoveAgent(context.Background(), "a") {
		t.Fatal("RemoveAgent() = false, want true")
	}
	if _, ok := s.GetAgent("a"); ok {
		t.Error("GetAgent() after RemoveAgent() should report not found")
	}
	if a.cleanupCalls != 1 {
		t.Error("RemoveAgent() should run the agent's cleanup hook")
	}
	if s.RemoveAgent(context.Background(), "a") {
		t.Error("RemoveAgent() on an already-removed agent should return false")
	}
}

func TestUserAgentSession_SetWebSocketManagerCreatesOwnBridge(t *testing.T) {
	s1 := newUserAgentSession("user-1", nil, nil)
	s2 := newUserAgentSession("user-2", nil, nil)

	shared := &recordingManagerStub{}
	b1 := s1.SetWebSocketManager(shared)
	b2 := s2.SetWebSocketManager(shared)

	if b1 == b2 {
		t.Error("two sessions sharing one WebSocketManager must still get distinct Bridge instances")
	}
	if b1.UserID() != "user-1" || b2.UserID() != "user-2" {
		t.Errorf("bridge user ids = %q, %q, want user-1, user-2", b1.UserID(), b2.UserID())
	}
}

// recordingManagerStub is an empty stand-in WebSocketManager: session
// tests only need to verify bridge identity, not delivery.
type recordingManagerStub struct{}

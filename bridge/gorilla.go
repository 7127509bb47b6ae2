package bridge

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/netra-systems/agentfabric/observe"
)

// GorillaWebSocketManager is a concrete WebSocketManager backed by
// per-user gorilla/websocket connections. A gorilla connection is not
// safe for concurrent writes, so every send for a user goes through that
// user's own mutex.
type GorillaWebSocketManager struct {
	logger observe.Logger

	mu    sync.RWMutex
	conns map[string]*userConn
}

type userConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewGorillaWebSocketManager creates an empty manager. Connections are
// registered with Register as clients connect.
func NewGorillaWebSocketManager(logger observe.Logger) *GorillaWebSocketManager {
	return &GorillaWebSocketManager{
		logger: logger,
		conns:  make(map[string]*userConn),
	}
}

// Register binds a live connection to a user_id, replacing any prior one.
func (m *GorillaWebSocketManager) Register(userID string, conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[userID] = &userConn{conn: conn}
}

// Unregister drops a user's connection, e.g. on disconnect.
func (m *GorillaWebSocketManager) Unregister(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, userID)
}

func (m *GorillaWebSocketManager) send(userID string, payload map[string]any) error {
	m.mu.RLock()
	uc, ok := m.conns[userID]
	m.mu.RUnlock()
	if !ok {
		return nil // no live socket for this user; drop silently, matching graceful degradation
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.conn.WriteMessage(websocket.TextMessage, body)
}

func (m *GorillaWebSocketManager) NotifyAgentStarted(ctx context.Context, userID, runID, agentName string, runContext map[string]any) error {
	return m.send(userID, map[string]any{
		"type": "agent_started", "run_id": runID, "agent_name": agentName, "context": runContext,
	})
}

func (m *GorillaWebSocketManager) NotifyAgentThinking(ctx context.Context, userID, runID, agentName, reasoning string, stepNumber *int, progressPercentage *float64) error {
	return m.send(userID, map[string]any{
		"type": "agent_thinking", "run_id": runID, "agent_name": agentName, "reasoning": reasoning,
		"step_number": stepNumber, "progress_percentage": progressPercentage,
	})
}

func (m *GorillaWebSocketManager) NotifyToolExecuting(ctx context.Context, userID, runID, agentName, toolName string, parameters map[string]any) error {
	return m.send(userID, map[string]any{
		"type": "tool_executing", "run_id": runID, "agent_name": agentName, "tool_name": toolName, "parameters": parameters,
	})
}

func (m *GorillaWebSocketManager) NotifyToolCompleted(ctx context.Context, userID, runID, agentName, toolName string, result any, durationMs *float64) error {
	return m.send(userID, map[string]any{
		"type": "tool_completed", "run_id": runID, "agent_name": agentName, "tool_name": toolName,
		"result": result, "duration_ms": durationMs,
	})
}

func (m *GorillaWebSocketManager) NotifyAgentCompleted(ctx context.Context, userID, runID, agentName string, result any, executionTimeMs *float64) error {
	return m.send(userID, map[string]any{
		"type": "agent_completed", "run_id": runID, "agent_name": agentName,
		"result": result, "execution_time_ms": executionTimeMs,
	})
}

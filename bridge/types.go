package bridge

import "context"

// WebSocketManager is the capability surface a real-time transport may
// offer. It carries no required methods itself: a concrete manager
// implements whichever of the five notifier interfaces below it can, and
// Bridge type-asserts for each one independently before every send.
type WebSocketManager interface{}

// AgentStartedNotifier delivers the agent_started event.
type AgentStartedNotifier interface {
	NotifyAgentStarted(ctx context.Context, userID, runID, agentName string, runContext map[string]any) error
}

// AgentThinkingNotifier delivers the agent_thinking event.
type AgentThinkingNotifier interface {
	NotifyAgentThinking(ctx context.Context, userID, runID, agentName, reasoning string, stepNumber *int, progressPercentage *float64) error
}

// ToolExecutingNotifier delivers the tool_executing event.
type ToolExecutingNotifier interface {
	NotifyToolExecuting(ctx context.Context, userID, runID, agentName, toolName string, parameters map[string]any) error
}

// ToolCompletedNotifier delivers the tool_completed event.
type ToolCompletedNotifier interface {
	NotifyToolCompleted(ctx context.Context, userID, runID, agentName, toolName string, result any, durationMs *float64) error
}

// AgentCompletedNotifier delivers the agent_completed event.
type AgentCompletedNotifier interface {
	NotifyAgentCompleted(ctx context.Context, userID, runID, agentName string, result any, executionTimeMs *float64) error
}

// AgentErrorNotifier and AgentDeathNotifier are uncontracted extensions a
// manager may additionally offer; Bridge forwards to them opportunistically
// but neither ordering nor isolation guarantees apply to them.
type AgentErrorNotifier interface {
	NotifyAgentError(ctx context.Context, userID, runID, agentName string, cause error) error
}

type AgentDeathNotifier interface {
	NotifyAgentDeath(ctx context.Context, userID, runID, agentName, reason string) error
}

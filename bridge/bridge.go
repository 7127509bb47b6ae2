package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/netra-systems/agentfabric/observe"
)

// runState tracks the per-run_id progress a Bridge needs to enforce the
// five-event ordering contract: started precedes everything, completed
// follows everything, and every tool_executing needs exactly one later
// tool_completed (or gets swallowed by agent_completed).
type runState struct {
	started   bool
	completed bool
	lastStep  int
	openTools map[string]bool
}

// Bridge adapts a WebSocketManager to one user's event stream. All sends
// for that user go through mu, so events for a single run_id preserve
// program order even when called from multiple goroutines.
type Bridge struct {
	userID  string
	manager WebSocketManager
	logger  observe.Logger

	mu   sync.Mutex
	runs map[string]*runState
}

// New constructs a Bridge bound to userID. manager may be nil, in which
// case every event degrades to a no-op with a warning log.
func New(userID string, manager WebSocketManager, logger observe.Logger) *Bridge {
	return &Bridge{
		userID:  userID,
		manager: manager,
		logger:  logger,
		runs:    make(map[string]*runState),
	}
}

// UserID returns the user this bridge is bound to.
func (b *Bridge) UserID() string {
	return b.userID
}

func (b *Bridge) warnMissing(ctx context.Context, event string) {
	if b.logger == nil {
		return
	}
	b.logger.Warn(ctx, "bridge: websocket manager does not implement event", observe.Field{Key: "event", Value: event}, observe.Field{Key: "user_id", Value: b.userID})
}

func (b *Bridge) runFor(runID string) *runState {
	rs, ok := b.runs[runID]
	if !ok {
		rs = &runState{openTools: make(map[string]bool)}
		b.runs[runID] = rs
	}
	return rs
}

// AgentStarted delivers the agent_started event. It is always the first
// valid event for a run_id; calling it twice for the same run is allowed
// (idempotent restart) but does not reset prior tool tracking.
func (b *Bridge) AgentStarted(ctx context.Context, runID, agentName string, runContext map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rs := b.runFor(runID)
	if rs.completed {
		return fmt.Errorf("%w: run_id=%s", ErrRunAlreadyCompleted, runID)
	}
	rs.started = true

	notifier, ok := b.manager.(AgentStartedNotifier)
	if !ok {
		b.warnMissing(ctx, "agent_started")
		return nil
	}
	return notifier.NotifyAgentStarted(ctx, b.userID, runID, agentName, runContext)
}

// AgentThinking delivers the agent_thinking event. If stepNumber is
// provided it must be monotonically non-decreasing for the run.
func (b *Bridge) AgentThinking(ctx context.Context, runID, agentName, reasoning string, stepNumber *int, progressPercentage *float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rs, err := b.requireActive(runID)
	if err != nil {
		return err
	}
	if stepNumber != nil {
		if *stepNumber < rs.lastStep {
			return fmt.Errorf("%w: run_id=%s step=%d last=%d", ErrNonMonotonicStep, runID, *stepNumber, rs.lastStep)
		}
		rs.lastStep = *stepNumber
	}

	notifier, ok := b.manager.(AgentThinkingNotifier)
	if !ok {
		b.warnMissing(ctx, "agent_thinking")
		return nil
	}
	return notifier.NotifyAgentThinking(ctx, b.userID, runID, agentName, reasoning, stepNumber, progressPercentage)
}

// ToolExecuting delivers the tool_executing event and opens the
// tool_completed expectation for toolName within this run.
func (b *Bridge) ToolExecuting(ctx context.Context, runID, agentName, toolName string, parameters map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rs, err := b.requireActive(runID)
	if err != nil {
		return err
	}
	rs.openTools[toolName] = true

	notifier, ok := b.manager.(ToolExecutingNotifier)
	if !ok {
		b.warnMissing(ctx, "tool_executing")
		return nil
	}
	return notifier.NotifyToolExecuting(ctx, b.userID, runID, agentName, toolName, parameters)
}

// ToolCompleted delivers the tool_completed event. It is a protocol
// violation to complete a tool that was never reported executing for
// this run.
func (b *Bridge) ToolCompleted(ctx context.Context, runID, agentName, toolName string, result any, durationMs *float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rs, err := b.requireActive(runID)
	if err != nil {
		return err
	}
	if !rs.openTools[toolName] {
		return fmt.Errorf("%w: run_id=%s tool=%s", ErrOrphanedToolCompleted, runID, toolName)
	}
	delete(rs.openTools, toolName)

	notifier, ok := b.manager.(ToolCompletedNotifier)
	if !ok {
		b.warnMissing(ctx, "tool_completed")
		return nil
	}
	return notifier.NotifyToolCompleted(ctx, b.userID, runID, agentName, toolName, result, durationMs)
}

// AgentCompleted delivers the agent_completed event, the terminal event
// for a run. Any tools still open when this fires are considered
// resolved by the run's outcome rather than orphaned.
func (b *Bridge) AgentCompleted(ctx context.Context, runID, agentName string, result any, executionTimeMs *float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rs, err := b.requireActive(runID)
	if err != nil {
		return err
	}
	rs.completed = true
	rs.openTools = nil

	notifier, ok := b.manager.(AgentCompletedNotifier)
	if !ok {
		b.warnMissing(ctx, "agent_completed")
		return nil
	}
	return notifier.NotifyAgentCompleted(ctx, b.userID, runID, agentName, result, executionTimeMs)
}

// AgentError delivers the uncontracted agent_error event, when the
// underlying manager offers it.
func (b *Bridge) AgentError(ctx context.Context, runID, agentName string, cause error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	notifier, ok := b.manager.(AgentErrorNotifier)
	if !ok {
		b.warnMissing(ctx, "agent_error")
		return nil
	}
	return notifier.NotifyAgentError(ctx, b.userID, runID, agentName, cause)
}

func (b *Bridge) requireActive(runID string) (*runState, error) {
	rs := b.runFor(runID)
	if !rs.started {
		return nil, fmt.Errorf("%w: run_id=%s", ErrRunNotStarted, runID)
	}
	if rs.completed {
		return nil, fmt.Errorf("%w: run_id=%s", ErrRunAlreadyCompleted, runID)
	}
	return rs, nil
}

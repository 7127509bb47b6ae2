package bridge

import "errors"

var (
	// ErrRunNotStarted is returned when an event other than AgentStarted
	// arrives for a run_id that has never seen AgentStarted.
	ErrRunNotStarted = errors.New("bridge: event emitted before agent_started for this run")

	// ErrRunAlreadyCompleted is returned when an event arrives for a
	// run_id that already received AgentCompleted.
	ErrRunAlreadyCompleted = errors.New("bridge: event emitted after agent_completed for this run")

	// ErrOrphanedToolCompleted is returned when ToolCompleted has no
	// matching prior ToolExecuting for the same run_id/tool_name pair.
	ErrOrphanedToolCompleted = errors.New("bridge: tool_completed with no matching tool_executing")

	// ErrNonMonotonicStep is returned when AgentThinking's step_number
	// decreases for a run that already reported a higher step.
	ErrNonMonotonicStep = errors.New("bridge: agent_thinking step_number went backwards")
)

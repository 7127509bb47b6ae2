package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/netra-systems/agentfabric/auth"
	"github.com/netra-systems/agentfabric/bridge"
)

// UserContext carries per-request identity and correlation ids through
// one agent run. It is built once per request and threaded into every
// factory the registry invokes on behalf of that user.
type UserContext struct {
	UserID    string
	RequestID string
	ThreadID  string
	RunID     string

	// Identity is the authenticated principal this context was built
	// from, if any. Anonymous or system-originated contexts leave it nil.
	Identity *auth.Identity
}

// placeholderMarkers match the throwaway user_ids test code reaches for.
// A user_id containing any of these must never reach a real factory
// outside test mode.
var placeholderMarkers = []string{
	"placeholder", "test_user", "test_request", "test_thread", "test_run", "dummy_user", "_test_",
}

func isPlaceholder(userID string) bool {
	lower := strings.ToLower(userID)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ValidateUserID rejects empty, non-string, and placeholder-marked user
// ids before any resource is created for them. raw accepts `any` so
// boundary code decoding untyped external input (a JSON body, a header)
// can reject malformed ids before a typed call ever sees them; code that
// already holds a string may pass it directly. allowPlaceholder should
// only ever be true for test-mode registries.
func ValidateUserID(raw any, allowPlaceholder bool) (string, error) {
	userID, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: must be a string, got %T", ErrInvalidUserID, raw)
	}
	if userID == "" {
		return "", fmt.Errorf("%w: must not be empty", ErrInvalidUserID)
	}
	if !allowPlaceholder && isPlaceholder(userID) {
		return "", fmt.Errorf("%w: %q looks like a placeholder/test value", ErrInvalidUserID, userID)
	}
	return userID, nil
}

// NewUserContext validates userID and builds a UserContext for it,
// generating RequestID/RunID. allowPlaceholder should only be true in
// test code.
func NewUserContext(userID string, identity *auth.Identity, allowPlaceholder bool) (UserContext, error) {
	validated, err := ValidateUserID(userID, allowPlaceholder)
	if err != nil {
		return UserContext{}, err
	}
	return UserContext{
		UserID:    validated,
		RequestID: "req_" + uuid.NewString(),
		ThreadID:  "thread_" + validated,
		RunID:     "run_" + uuid.NewString(),
		Identity:  identity,
	}, nil
}

// Agent is whatever a registered factory produces. Cleanup/Close are
// optional capabilities a session checks for via type assertion, the
// same way health.Checker's PingChecker/InfoChecker are checked.
type Agent interface{}

// CleanupableAgent is an Agent with an async-style cleanup hook.
type CleanupableAgent interface {
	Cleanup(ctx context.Context) error
}

// CloseableAgent is an Agent with a synchronous close hook.
type CloseableAgent interface {
	Close() error
}

// AgentFactory constructs a new, fully isolated Agent for one user. The
// same factory invoked for two different users must never return the
// same instance or share mutable state between the two calls.
type AgentFactory func(ctx context.Context, uc UserContext, b *bridge.Bridge) (Agent, error)

// Dispatcher is whatever a tool dispatcher factory produces.
type Dispatcher interface{}

// DispatcherFactory creates a per-user tool dispatcher. enableAdminTools
// gates registration of privileged tools.
type DispatcherFactory func(ctx context.Context, uc UserContext, b *bridge.Bridge, enableAdminTools bool) (Dispatcher, error)

// DispatcherEnhancer layers WebSocket notifications onto an already
// constructed Dispatcher.
type DispatcherEnhancer func(d Dispatcher, wsManager bridge.WebSocketManager, uc UserContext, enableNotifications bool) Dispatcher

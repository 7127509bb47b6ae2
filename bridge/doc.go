// Package bridge delivers per-run agent lifecycle events to a user's
// WebSocket stream. A Bridge is constructed with one user's identity
// baked in, so events from one user can never reach another's stream.
// The underlying WebSocketManager may implement any subset of the five
// notify methods; a missing one degrades to a logged warning instead of
// failing the call.
package bridge

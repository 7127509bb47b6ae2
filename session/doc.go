// Package session gives every user a private, factory-built runtime: one
// UserAgentSession holding that user's agents, its own Bridge, and
// nothing shared with any other user. Registry owns the user_id -> session
// map and the agent-type -> factory map; it never holds agent state
// itself, so there is no global mutable state to leak across users.
package session

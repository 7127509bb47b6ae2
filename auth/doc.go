// Package auth provides authentication and authorization primitives for
// agent sessions and the MCP tools they dispatch.
//
// It supports multiple authentication methods (JWT, API key, OAuth2 introspection)
// and role-based access control (RBAC) over resources named "tool:<name>", so a
// session's RBAC policy can allow or deny individual MCP tools per principal.
// The package is protocol-agnostic and can be used with any transport layer.
package auth

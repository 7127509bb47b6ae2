// Package mcp manages pooled connections to external Model Context
// Protocol servers. Manager owns one bounded pool per server, each
// coupled to its own circuit breaker so a single unhealthy server can't
// exhaust capacity meant for the others. Transport abstracts the wire
// protocol (stdio, HTTP, WebSocket); Manager never talks to a socket
// directly.
//
// A Connection belongs to exactly one place at a time: a server's
// available pool, a caller that checked it out, or that server's
// failed-connections recovery queue. Failures never drop a connection
// silently — they route it to recovery, where a background loop retries
// it with exponential backoff until it reconnects. Recovery attempts pause
// while the server's breaker is open; a connection is never given up on.
package mcp

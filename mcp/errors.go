package mcp

import "errors"

var (
	// ErrUnsupportedTransport is returned when a ServerConfig names a
	// transport kind with no registered factory.
	ErrUnsupportedTransport = errors.New("mcp: unsupported transport")

	// ErrConnectionSetup wraps any failure occurring before a connection
	// reaches CONNECTED.
	ErrConnectionSetup = errors.New("mcp: connection setup failed")

	// ErrServerNotConfigured is returned when an operation names a server
	// with no stored ServerConfig.
	ErrServerNotConfigured = errors.New("mcp: server not configured")

	// ErrResourceUnavailable is the error ManagerChecker attaches to its
	// unhealthy result; no Manager method returns it.
	ErrResourceUnavailable = errors.New("mcp: resource unavailable")

	// ErrManagerShuttingDown names an operation attempted after Close.
	// No Manager method currently returns it.
	ErrManagerShuttingDown = errors.New("mcp: manager is shutting down")

	// ErrShutdownTimeout indicates background loops did not exit within
	// the shutdown grace period.
	ErrShutdownTimeout = errors.New("mcp: shutdown timed out waiting for background loops")
)

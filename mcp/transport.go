package mcp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Transport is the wire-level contract a ServerConfig.Transport resolves
// to. Connect/Ping/Negotiate/Close are the only operations the manager needs;
// protocol-level request/response framing is out of scope here.
type Transport interface {
	Connect(ctx context.Context) error
	Ping(ctx context.Context) error
	Negotiate(ctx context.Context) (sessionID string, err error)
	Close() error
}

// TransportFactory builds a Transport for one ServerConfig. Factories must
// not block past ctx's deadline.
type TransportFactory func(ctx context.Context, config ServerConfig) (Transport, error)

// DefaultTransportFactories returns the built-in factory for every
// TransportKind.
func DefaultTransportFactories() map[TransportKind]TransportFactory {
	return map[TransportKind]TransportFactory{
		TransportSTDIO:     newStdioTransport,
		TransportHTTP:      newHTTPTransport,
		TransportWebSocket: newWebSocketTransport,
	}
}

// --- STDIO -------------------------------------------------------------

// stdioTransport models a subprocess-backed MCP server. Connect is a no-op
// placeholder for process launch; Ping/Close are likewise inert until a
// concrete subprocess protocol is wired in. It exists so ServerConfig.
// Transport == TransportSTDIO resolves to something rather than erroring.
type stdioTransport struct {
	config ServerConfig
}

func newStdioTransport(ctx context.Context, config ServerConfig) (Transport, error) {
	return &stdioTransport{config: config}, nil
}

func (t *stdioTransport) Connect(ctx context.Context) error { return nil }
func (t *stdioTransport) Ping(ctx context.Context) error     { return nil }
func (t *stdioTransport) Negotiate(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}
func (t *stdioTransport) Close() error { return nil }

// --- HTTP ----------------------------------------------------------------

// httpTransport pings a server over a plain HTTP health endpoint.
type httpTransport struct {
	config ServerConfig
	client *http.Client
}

func newHTTPTransport(ctx context.Context, config ServerConfig) (Transport, error) {
	return &httpTransport{
		config: config,
		client: &http.Client{Timeout: config.setDefaults().Timeout},
	}, nil
}

func (t *httpTransport) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.config.URL, nil)
	if err != nil {
		return fmt.Errorf("mcp: build connect request: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("mcp: connect %s: %w", t.config.Name, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (t *httpTransport) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, t.config.URL, nil)
	if err != nil {
		return err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

func (t *httpTransport) Negotiate(ctx context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (t *httpTransport) Close() error { return nil }

// --- WEBSOCKET -------------------------------------------------------------

const (
	defaultPingInterval   = 30 * time.Second
	defaultPingTimeout    = 10 * time.Second
	defaultMaxMessageSize = 10 * 1024 * 1024
)

// websocketTransport dials over WebSocket and keeps the connection alive
// with a ping/pong loop. Reconnection is the manager's job (via the
// recovery loop), not the transport's — this mirrors the rest of the
// manager's "no component silently retries on its own" shape.
type websocketTransport struct {
	config ServerConfig
	dialer *websocket.Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	stopPing  chan struct{}
	pingDone  chan struct{}
}

func newWebSocketTransport(ctx context.Context, config ServerConfig) (Transport, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: config.setDefaults().Timeout,
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
	}
	if parsed, err := url.Parse(config.URL); err == nil && parsed.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return &websocketTransport{config: config, dialer: dialer}, nil
}

func (t *websocketTransport) Connect(ctx context.Context) error {
	conn, _, err := t.dialer.DialContext(ctx, t.config.URL, nil)
	if err != nil {
		return fmt.Errorf("mcp: dial %s: %w", t.config.Name, err)
	}
	conn.SetReadLimit(defaultMaxMessageSize)
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(defaultPingTimeout))
		return nil
	})

	t.mu.Lock()
	t.conn = conn
	t.connected = true
	t.stopPing = make(chan struct{})
	t.pingDone = make(chan struct{})
	t.mu.Unlock()

	t.startPingLoop()
	return nil
}

func (t *websocketTransport) startPingLoop() {
	t.mu.Lock()
	stop := t.stopPing
	done := t.pingDone
	t.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(defaultPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.mu.Lock()
				conn := t.conn
				t.mu.Unlock()
				if conn == nil {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(defaultPingTimeout))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					t.mu.Lock()
					t.connected = false
					t.mu.Unlock()
					return
				}
				conn.SetWriteDeadline(time.Time{})
			case <-stop:
				return
			}
		}
	}()
}

func (t *websocketTransport) Ping(ctx context.Context) error {
	t.mu.Lock()
	conn := t.conn
	connected := t.connected
	t.mu.Unlock()

	if !connected || conn == nil {
		return fmt.Errorf("mcp: %s: not connected", t.config.Name)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultPingTimeout)
	}
	if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
		t.mu.Lock()
		t.connected = false
		t.mu.Unlock()
		return fmt.Errorf("mcp: %s: ping failed: %w", t.config.Name, err)
	}
	return nil
}

func (t *websocketTransport) Negotiate(ctx context.Context) (string, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return "", fmt.Errorf("mcp: %s: not connected", t.config.Name)
	}
	return uuid.NewString(), nil
}

func (t *websocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}
	if t.stopPing != nil {
		close(t.stopPing)
		<-t.pingDone
	}

	writeErr := t.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	closeErr := t.conn.Close()
	t.conn = nil
	t.connected = false

	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

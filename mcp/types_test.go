package mcp

import (
	"context"
	"testing"
	"time"
)

func TestServerConfig_SetDefaults(t *testing.T) {
	config := ServerConfig{Name: "svc"}.setDefaults()
	if config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", config.Timeout)
	}
	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
}

func TestServerConfig_SetDefaultsPreservesExplicitValues(t *testing.T) {
	config := ServerConfig{Name: "svc", Timeout: 5 * time.Second, MaxRetries: 1}.setDefaults()
	if config.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s (explicit value preserved)", config.Timeout)
	}
	if config.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d, want 1 (explicit value preserved)", config.MaxRetries)
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{StatusConnecting, "connecting"},
		{StatusConnected, "connected"},
		{StatusReconnecting, "reconnecting"},
		{StatusFailed, "failed"},
		{StatusDisconnected, "disconnected"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestConnection_SnapshotIsConsistentWithSetters(t *testing.T) {
	conn := &Connection{recoveryBackoffDelay: initialRecoveryBackoff}
	conn.setStatus(StatusConnected)

	snap := conn.snapshot()
	if snap.Status != StatusConnected {
		t.Errorf("snapshot Status = %v, want Connected", snap.Status)
	}
	if snap.RecoveryBackoffDelay != initialRecoveryBackoff {
		t.Errorf("snapshot RecoveryBackoffDelay = %v, want %v", snap.RecoveryBackoffDelay, initialRecoveryBackoff)
	}
}

func TestConnection_PingFnUsesCurrentTransport(t *testing.T) {
	st := &scriptedTransport{}
	conn := &Connection{transport: st}

	fn := conn.pingFn()
	if err := fn(context.Background()); err != nil {
		t.Errorf("pingFn()() error = %v", err)
	}
	if st.pingCalls != 1 {
		t.Errorf("pingCalls = %d, want 1", st.pingCalls)
	}
}

func TestConnection_CloseTransportIsSafeWhenNil(t *testing.T) {
	conn := &Connection{}
	if err := conn.closeTransport(); err != nil {
		t.Errorf("closeTransport() on a connection with no transport should be a no-op, got %v", err)
	}
}

func TestConnection_CloseTransportClosesUnderlyingTransport(t *testing.T) {
	st := &scriptedTransport{}
	conn := &Connection{transport: st}
	_ = conn.closeTransport()
	if !st.closed {
		t.Error("expected closeTransport to close the underlying transport")
	}
}

func TestJitter_BoundedByInput(t *testing.T) {
	d := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		got := jitter(d)
		if got < 0 || got >= d {
			t.Fatalf("jitter(%v) = %v, want in [0, %v)", d, got, d)
		}
	}
}

func TestJitter_ZeroForNonPositiveInput(t *testing.T) {
	if got := jitter(0); got != 0 {
		t.Errorf("jitter(0) = %v, want 0", got)
	}
	if got := jitter(-time.Second); got != 0 {
		t.Errorf("jitter(-1s) = %v, want 0", got)
	}
}

func TestNewConnectionID_Unique(t *testing.T) {
	a := newConnectionID()
	b := newConnectionID()
	if a == "" || b == "" {
		t.Fatal("newConnectionID() returned an empty string")
	}
	if a == b {
		t.Error("expected two calls to newConnectionID() to differ")
	}
}

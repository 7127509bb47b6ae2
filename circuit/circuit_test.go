package circuit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	b := New("svc", Config{})

	if b.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", b.State())
	}
	if b.config.FailureThreshold != 5 {
		t.Errorf("FailureThreshold = %d, want 5", b.config.FailureThreshold)
	}
	if b.config.SuccessThreshold != 1 {
		t.Errorf("SuccessThreshold = %d, want 1", b.config.SuccessThreshold)
	}
	if b.config.RecoveryTimeout != 30*time.Second {
		t.Errorf("RecoveryTimeout = %v, want 30s", b.config.RecoveryTimeout)
	}
}

func TestBreaker_OpensAfterFailureThreshold(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Second,
	})

	testErr := errors.New("test error")

	for i := 0; i < 2; i++ {
		err := b.Execute(context.Background(), func(ctx context.Context) error {
			return testErr
		})
		if err != testErr {
			t.Errorf("Execute() error = %v, want %v", err, testErr)
		}
		if b.State() != StateClosed {
			t.Errorf("after %d failures, state = %v, want closed", i+1, b.State())
		}
	}

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		return testErr
	})
	if err != testErr {
		t.Errorf("Execute() error = %v, want %v", err, testErr)
	}
	if b.State() != StateOpen {
		t.Errorf("after 3 failures, state = %v, want open", b.State())
	}

	err = b.Execute(context.Background(), func(ctx context.Context) error {
		t.Error("should not be called when circuit is open")
		return nil
	})
	if err != ErrCircuitOpen {
		t.Errorf("Execute() when open = %v, want ErrCircuitOpen", err)
	}
	if b.Status().Metrics.RejectedCalls != 1 {
		t.Errorf("RejectedCalls = %d, want 1", b.Status().Metrics.RejectedCalls)
	}
}

func TestBreaker_HalfOpenAfterRecoveryTimeout(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
	})

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	time.Sleep(20 * time.Millisecond)

	if b.State() != StateHalfOpen {
		t.Errorf("state = %v, want half_open", b.State())
	}
}

func TestBreaker_HalfOpenProbeSuccessCloses(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
	})

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	time.Sleep(20 * time.Millisecond)

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreaker_HalfOpenNeedsSuccessThresholdProbes(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		RecoveryTimeout:  10 * time.Millisecond,
	})

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	time.Sleep(20 * time.Millisecond)

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if b.State() != StateHalfOpen {
		t.Fatalf("state after 1/2 probes = %v, want half_open", b.State())
	}

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if b.State() != StateClosed {
		t.Errorf("state after 2/2 probes = %v, want closed", b.State())
	}
}

func TestBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
	})

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	time.Sleep(20 * time.Millisecond)

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail again")
	})

	if b.State() != StateOpen {
		t.Errorf("state = %v, want open", b.State())
	}
}

func TestBreaker_HalfOpenRejectsSecondConcurrentProbe(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
	})

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	time.Sleep(20 * time.Millisecond)
	_ = b.State() // force the OPEN->HALF_OPEN transition

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = b.Execute(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		t.Error("second probe should not run while one is in flight")
		return nil
	})
	if err != ErrCircuitOpen {
		t.Errorf("second probe error = %v, want ErrCircuitOpen", err)
	}
	close(release)
}

func TestBreaker_Reset(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  time.Hour,
	})

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	b.Reset()

	if b.State() != StateClosed {
		t.Errorf("after reset, state = %v, want closed", b.State())
	}
	if b.Status().Metrics.TotalCalls != 0 {
		t.Errorf("after reset, TotalCalls = %d, want 0", b.Status().Metrics.TotalCalls)
	}
}

func TestBreaker_ForceOpen(t *testing.T) {
	b := New("svc", Config{RecoveryTimeout: time.Hour})

	b.ForceOpen()

	if b.State() != StateOpen {
		t.Errorf("state = %v, want open", b.State())
	}
}

func TestBreaker_OnStateChange(t *testing.T) {
	var transitions []struct {
		from, to State
	}
	var mu sync.Mutex

	b := New("svc", Config{
		FailureThreshold: 1,
		RecoveryTimeout:  10 * time.Millisecond,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			transitions = append(transitions, struct{ from, to State }{from, to})
			mu.Unlock()
		},
	})

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	time.Sleep(20 * time.Millisecond)
	_ = b.State()

	_ = b.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})

	mu.Lock()
	defer mu.Unlock()

	if len(transitions) < 2 {
		t.Fatalf("expected at least 2 transitions, got %d", len(transitions))
	}
	if transitions[0].from != StateClosed || transitions[0].to != StateOpen {
		t.Errorf("first transition = %v -> %v, want closed -> open", transitions[0].from, transitions[0].to)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 3,
		RecoveryTimeout:  time.Hour,
	})

	testErr := errors.New("test error")

	_ = b.Execute(context.Background(), func(ctx context.Context) error { return testErr })
	_ = b.Execute(context.Background(), func(ctx context.Context) error { return testErr })
	_ = b.Execute(context.Background(), func(ctx context.Context) error { return nil })
	_ = b.Execute(context.Background(), func(ctx context.Context) error { return testErr })
	_ = b.Execute(context.Background(), func(ctx context.Context) error { return testErr })

	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed", b.State())
	}
}

func TestBreaker_CancellationIsNeitherSuccessNorFailure(t *testing.T) {
	b := New("svc", Config{FailureThreshold: 1})

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		return context.Canceled
	})
	if err != context.Canceled {
		t.Fatalf("Execute() error = %v, want context.Canceled", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed (cancellation is not a failure)", b.State())
	}
	m := b.Status().Metrics
	if m.TotalCalls != 0 || m.FailedCalls != 0 || m.SuccessfulCalls != 0 {
		t.Errorf("cancellation must not move any counter, got %+v", m)
	}
}

func TestBreaker_CallTimeoutCountsAsFailureAndTimeout(t *testing.T) {
	b := New("svc", Config{
		FailureThreshold: 1,
		CallTimeout:      5 * time.Millisecond,
	})

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if b.State() != StateOpen {
		t.Errorf("state = %v, want open", b.State())
	}
	m := b.Status().Metrics
	if m.Timeouts != 1 {
		t.Errorf("Timeouts = %d, want 1", m.Timeouts)
	}
	if m.FailedCalls != 1 {
		t.Errorf("FailedCalls = %d, want 1", m.FailedCalls)
	}
}

func TestBreaker_Status(t *testing.T) {
	b := New("svc", Config{FailureThreshold: 5})

	testErr := errors.New("test error")
	_ = b.Execute(context.Background(), func(ctx context.Context) error { return testErr })
	_ = b.Execute(context.Background(), func(ctx context.Context) error { return testErr })
	_ = b.Execute(context.Background(), func(ctx context.Context) error { return nil })

	status := b.Status()

	if status.Name != "svc" {
		t.Errorf("Name = %q, want svc", status.Name)
	}
	if status.State != StateClosed {
		t.Errorf("State = %v, want closed", status.State)
	}
	if status.FailureCount != 0 {
		t.Errorf("FailureCount = %d, want 0 (last call was a success)", status.FailureCount)
	}
	if status.Metrics.TotalCalls != 3 {
		t.Errorf("TotalCalls = %d, want 3", status.Metrics.TotalCalls)
	}
	if got, want := status.Metrics.SuccessRate(), 1.0/3.0; got != want {
		t.Errorf("SuccessRate = %f, want %f", got, want)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half_open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCounters_SuccessRate_NoCallsIsZero(t *testing.T) {
	var c Counters
	if c.SuccessRate() != 0 {
		t.Errorf("SuccessRate() on zero value = %f, want 0", c.SuccessRate())
	}
}

func TestBreaker_ConcurrentExecute(t *testing.T) {
	b := New("svc", Config{FailureThreshold: 1000})

	var wg sync.WaitGroup
	const n = 200
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_ = b.Execute(context.Background(), func(ctx context.Context) error {
				if i%2 == 0 {
					return errors.New("fail")
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	m := b.Status().Metrics
	if m.TotalCalls != n {
		t.Errorf("TotalCalls = %d, want %d", m.TotalCalls, n)
	}
}

package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func fastOpts(extra ...Option) []Option {
	return append([]Option{WithInitialDelay(time.Millisecond), WithMaxDelay(5 * time.Millisecond)}, extra...)
}

func TestDo_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("lock busy")
		}
		return nil
	}, fastOpts(WithMaxAttempts(3))...)

	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDo_MaxAttemptsExceeded(t *testing.T) {
	cause := errors.New("lock busy")
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return cause
	}, fastOpts(WithMaxAttempts(3))...)

	if !errors.Is(err, ErrMaxAttemptsExceeded) {
		t.Errorf("expected ErrMaxAttemptsExceeded, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected last error to be kept, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ContextCanceledBeforeFirstCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, func() error {
		calls++
		return nil
	})

	if !errors.Is(err, ErrContextCanceled) {
		t.Errorf("expected ErrContextCanceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected 0 calls, got %d", calls)
	}
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	cause := errors.New("bad lock path")
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return fmt.Errorf("acquire: %w", Permanent(cause))
	}, fastOpts(WithMaxAttempts(5))...)

	if !errors.Is(err, cause) {
		t.Errorf("expected cause, got %v", err)
	}
	if errors.Is(err, ErrMaxAttemptsExceeded) {
		t.Errorf("permanent error must not exhaust attempts: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_CustomIsRetryable(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func() error {
		calls++
		return errors.New("nope")
	}, fastOpts(WithMaxAttempts(3), WithIsRetryable(func(error) bool { return false }))...)

	if err == nil || calls != 1 {
		t.Errorf("expected one failing call, got %d calls and %v", calls, err)
	}
}

func TestDoWithResult_ReturnsValue(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("not yet")
		}
		return "locked", nil
	}, fastOpts(WithMaxAttempts(3))...)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "locked" {
		t.Errorf("expected 'locked', got %q", got)
	}
}

func TestDo_ExponentialBackoff(t *testing.T) {
	var delays []time.Duration
	_ = Do(context.Background(), func() error {
		return errors.New("busy")
	}, WithMaxAttempts(4), WithInitialDelay(time.Millisecond), WithMultiplier(2.0), WithOnRetry(func(_ int, d time.Duration, _ error) {
		delays = append(delays, d)
	}))

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("expected %d delays, got %d", len(want), len(delays))
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d]: expected %v, got %v", i, want[i], delays[i])
		}
	}
}

func TestDo_MaxDelayCap(t *testing.T) {
	var delays []time.Duration
	_ = Do(context.Background(), func() error {
		return errors.New("busy")
	}, WithMaxAttempts(4), WithInitialDelay(time.Millisecond), WithMaxDelay(3*time.Millisecond), WithMultiplier(10), WithOnRetry(func(_ int, d time.Duration, _ error) {
		delays = append(delays, d)
	}))

	for _, d := range delays {
		if d > 3*time.Millisecond {
			t.Errorf("delay %v exceeded cap", d)
		}
	}
}

func TestDefaultIsRetryable(t *testing.T) {
	cases := map[string]struct {
		err  error
		want bool
	}{
		"nil":       {nil, false},
		"plain":     {errors.New("x"), true},
		"permanent": {Permanent(errors.New("x")), false},
		"canceled":  {context.Canceled, false},
		"deadline":  {fmt.Errorf("wait: %w", context.DeadlineExceeded), false},
	}
	for name, tc := range cases {
		if got := DefaultIsRetryable(tc.err); got != tc.want {
			t.Errorf("%s: expected %v, got %v", name, tc.want, got)
		}
	}
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxAttempts != 3 || cfg.InitialDelay != 100*time.Millisecond || cfg.MaxDelay != 30*time.Second || cfg.Multiplier != 2.0 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.IsRetryable == nil {
		t.Error("expected IsRetryable to be set")
	}
}

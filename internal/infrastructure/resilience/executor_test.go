package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecuteRunsCallbackOnce(t *testing.T) {
	exec := NewExecutor(DefaultConfig())

	calls := 0
	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return errors.New("boom")
	}, nil)
	if err == nil {
		t.Fatalf("expected error to propagate")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestExecuteOpensBreakerAfterFailures(t *testing.T) {
	cfg := Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      3,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}
	exec := NewExecutor(cfg)

	for i := 0; i < 3; i++ {
		_ = exec.Execute(context.Background(), "op", func(context.Context) error {
			return errors.New("backend down")
		}, nil)
	}

	err := exec.Execute(context.Background(), "op", func(context.Context) error {
		t.Fatalf("callback must not run while breaker is open")
		return nil
	}, nil)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected circuit-open error, got %v", err)
	}
}

func TestExecuteIgnoresUnrecordedFailures(t *testing.T) {
	cfg := Config{
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}
	exec := NewExecutor(cfg)
	classifier := func(error) ErrorClassification { return ErrorClassification{RecordFailure: false} }

	for i := 0; i < 5; i++ {
		_ = exec.Execute(context.Background(), "op", func(context.Context) error {
			return context.Canceled
		}, classifier)
	}

	ran := false
	_ = exec.Execute(context.Background(), "op", func(context.Context) error {
		ran = true
		return nil
	}, classifier)
	if !ran {
		t.Fatalf("breaker must stay closed when failures are not recorded")
	}
}

func TestExecuteDisabledBreakerStillPropagates(t *testing.T) {
	exec := NewExecutor(Config{BreakerEnabled: false})

	sentinel := errors.New("sentinel")
	err := exec.Execute(context.Background(), "op", func(context.Context) error { return sentinel }, nil)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

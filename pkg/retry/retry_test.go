package retry

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return fmt.Errorf("always fails")
	})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4 (initial + 3 retries)", attempts)
	}
}

func TestDoWithResult_ReturnsValue(t *testing.T) {
	got, err := DoWithResult(context.Background(), fastConfig(), func() (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("result = %d, want 42", got)
	}
}

func TestDo_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, &Config{MaxRetries: 5, InitialDelay: time.Second, MaxDelay: time.Second, Multiplier: 1}, func() error {
		return fmt.Errorf("fail")
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDoWithResultIfRetryable_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	_, err := DoWithResultIfRetryable(context.Background(), fastConfig(), func() (int, error) {
		attempts++
		return 0, fmt.Errorf("password authentication failed")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (permanent errors are not retried)", attempts)
	}
}

func TestDoWithResultIfRetryable_RetriesTransientError(t *testing.T) {
	attempts := 0
	got, err := DoWithResultIfRetryable(context.Background(), fastConfig(), func() (int, error) {
		attempts++
		if attempts < 3 {
			return 0, fmt.Errorf("dial tcp: connection refused")
		}
		return 7, nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got != 7 {
		t.Errorf("result = %d, want 7", got)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"connection refused", fmt.Errorf("dial tcp: connection refused"), true},
		{"http 503", fmt.Errorf("feed returned status 503"), true},
		{"rate limited", fmt.Errorf("Rate limit exceeded"), true},
		{"bad credentials", fmt.Errorf("password authentication failed"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"sales-service/domain/sale"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 5 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"concurrent modification", sale.NewConcurrentModificationError("s-1", 2), true},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"mysql lock wait timeout", &mysqlDriver.MySQLError{Number: 1205, Message: "Lock wait timeout"}, true},
		{"mysql duplicate key", &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}, false},
		{"deadlock text", errors.New("transaction aborted: deadlock detected"), true},
		{"connection lost", errors.New("connection to server lost"), true},
		{"plain error", errors.New("boom"), false},
		{"sale not found", sale.NewSaleNotFoundError("s-1"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryableError(tc.err, cfg); got != tc.want {
				t.Errorf("IsRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}

	t.Log("✓ retryable classification tests passed")
}

func TestIsRetryableErrorRespectsToggles(t *testing.T) {
	cfg := DefaultConfig
	cfg.RetryOnConcurrentModification = false
	if IsRetryableError(sale.ErrConcurrentModification, cfg) {
		t.Error("concurrent modification retried while disabled")
	}

	cfg = DefaultConfig
	cfg.RetryOnDeadlock = false
	if IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg) {
		t.Error("deadlock retried while disabled")
	}

	cfg = DefaultConfig
	cfg.RetryPredicate = func(err error) bool { return err.Error() == "custom" }
	if !IsRetryableError(errors.New("custom"), cfg) {
		t.Error("custom predicate ignored")
	}
}

func TestExponentialBackoffWithJitter(t *testing.T) {
	cfg := Config{
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
	}

	if got := ExponentialBackoffWithJitter(0, cfg); got != 0 {
		t.Errorf("attempt 0 delay = %v, want 0", got)
	}
	if got := ExponentialBackoffWithJitter(1, cfg); got != 100*time.Millisecond {
		t.Errorf("attempt 1 delay = %v, want 100ms", got)
	}
	if got := ExponentialBackoffWithJitter(2, cfg); got != 200*time.Millisecond {
		t.Errorf("attempt 2 delay = %v, want 200ms", got)
	}
	// Capped at MaxDelay.
	if got := ExponentialBackoffWithJitter(10, cfg); got != time.Second {
		t.Errorf("attempt 10 delay = %v, want 1s", got)
	}

	cfg.JitterEnabled = true
	for i := 0; i < 20; i++ {
		got := ExponentialBackoffWithJitter(1, cfg)
		if got < 80*time.Millisecond || got > 120*time.Millisecond {
			t.Fatalf("jittered delay %v outside 80ms-120ms", got)
		}
	}

	t.Log("✓ backoff tests passed")
}

func TestExecuteWithRetrySucceedsAfterConflicts(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return sale.NewConcurrentModificationError("s-1", attempts)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ExecuteWithRetry failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteWithRetryStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	wantErr := sale.NewSaleNotFoundError("s-1")
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return wantErr
	})
	if !errors.Is(err, sale.ErrSaleNotFound) {
		t.Fatalf("got %v, want sale not found", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestExecuteWithRetryExhaustsBudget(t *testing.T) {
	attempts := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		attempts++
		return sale.NewConcurrentModificationError("s-1", attempts)
	})
	if !errors.Is(err, sale.ErrConcurrentModification) {
		t.Fatalf("got %v, want concurrent modification", err)
	}
	if attempts != DefaultConfig.MaxAttempts {
		t.Errorf("attempts = %d, want %d", attempts, DefaultConfig.MaxAttempts)
	}
}

func TestExecuteWithRetryDisabled(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	attempts := 0
	err := ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		attempts++
		return sale.ErrConcurrentModification
	})
	if err == nil || attempts != 1 {
		t.Errorf("disabled retry ran %d attempts, err %v", attempts, err)
	}
}

func TestExecuteWithRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error {
		t.Fatal("fn ran on cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

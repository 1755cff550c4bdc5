package adapter

import (
	"context"
	"errors"
	"strings"
	"testing"
)

var errTransient = errors.New("transient")

func TestRetry(t *testing.T) {
	errPermanent := errors.New("permanent")

	tests := []struct {
		name         string
		retries      int
		failures     int
		err          error
		wantAttempts int
		wantErr      string
	}{
		{"first attempt succeeds", 3, 0, nil, 1, ""},
		{"succeeds after one retry", 3, 1, errTransient, 2, ""},
		{"no retries configured", 0, 5, errTransient, 1, "test: failed after 1 attempts"},
		{"permanent error stops", 3, 5, errPermanent, 1, "test: non-retriable error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(t.Context(), "test", tt.retries,
				func(err error) bool { return errors.Is(err, errPermanent) },
				func(context.Context) error {
					calls++
					if calls <= tt.failures {
						return tt.err
					}
					return nil
				})

			if calls != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", calls, tt.wantAttempts)
			}
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want prefix %q", err, tt.wantErr)
			}
		})
	}
}

func TestRetry_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	calls := 0
	err := Retry(ctx, "test", 3, nil, func(context.Context) error {
		calls++
		return nil
	})
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("attempt called %d times on canceled context", calls)
	}
}

package resilience

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrCircuitOpen,
		ErrBulkheadFull,
		ErrOperationTimeout,
		ErrMaxRetries,
		ErrRateLimitExceeded,
	}

	for i, a := range sentinels {
		if a == nil || a.Error() == "" {
			t.Errorf("sentinel %d has empty message", i)
		}
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinels %d and %d match each other", i, j)
			}
		}
	}
}

func TestMaxRetriesError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &MaxRetriesError{Attempts: 3, Last: cause}

	if !errors.Is(err, ErrMaxRetries) {
		t.Error("errors.Is(err, ErrMaxRetries) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("MaxRetriesError lost its cause")
	}
	if !strings.Contains(err.Error(), "3 attempts") {
		t.Errorf("Error() = %q, want attempt count", err.Error())
	}

	wrapped := fmt.Errorf("calling payments: %w", err)
	var target *MaxRetriesError
	if !errors.As(wrapped, &target) || target.Attempts != 3 {
		t.Error("errors.As failed through a wrapping layer")
	}
}

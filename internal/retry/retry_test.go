package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTemporary = errors.New("temporary")

func isTemporary(err error) bool { return errors.Is(err, errTemporary) }

func TestDo(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		failWith  error
		attempts  int
		wantCalls int
		wantOK    bool
	}{
		{"succeeds first time", 0, nil, 3, 1, true},
		{"recovers after transient failures", 2, errTemporary, 3, 3, true},
		{"gives up after attempts", 5, errTemporary, 3, 3, false},
		{"permanent error is not retried", 5, errors.New("permanent"), 3, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), Policy{Attempts: tt.attempts, Delay: time.Millisecond, Retryable: isTemporary},
				func(context.Context) error {
					calls++
					if calls <= tt.failures {
						return tt.failWith
					}
					return nil
				})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.failWith)
			}
		})
	}
}

func TestDo_BeforeRetryCanShortCircuit(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{
		Attempts:  3,
		Retryable: isTemporary,
		BeforeRetry: func(context.Context, int) (bool, error) {
			return true, nil
		},
	}, func(context.Context) error {
		calls++
		return errTemporary
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 3, Delay: time.Hour, Retryable: isTemporary}, func(context.Context) error {
		calls++
		cancel()
		return errTemporary
	})

	assert.ErrorIs(t, err, errTemporary)
	assert.Equal(t, 1, calls)
}

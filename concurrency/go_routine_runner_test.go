package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunKeepsJobOrder(t *testing.T) {
	runner := NewGoRoutineRunner[int]()
	for i := 0; i < 5; i++ {
		runner.AddJob(func(ctx context.Context, index int) (int, error) {
			time.Sleep(time.Duration(5-index) * time.Millisecond)
			return index * 10, nil
		})
	}

	results, errs, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40}, results)
	assert.NoError(t, FirstError(errs))
}

func TestRunRespectsLimit(t *testing.T) {
	var running, peak int32
	runner := NewGoRoutineRunner[struct{}]().SetMaxConcurrentJobs(2)
	for i := 0; i < 6; i++ {
		runner.AddJob(func(ctx context.Context, index int) (struct{}, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return struct{}{}, nil
		})
	}

	_, _, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestRunCollectsErrors(t *testing.T) {
	boom := errors.New("boom")
	runner := NewGoRoutineRunner[string]().SetClearJobsAfterRun(true).AddJob(
		func(ctx context.Context, index int) (string, error) { return "ok", nil },
		func(ctx context.Context, index int) (string, error) { return "", boom },
	)

	results, errs, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", results[0])
	assert.ErrorIs(t, FirstError(errs), boom)

	_, _, err = runner.Run(context.Background())
	assert.Error(t, err)
}

func TestRunWaitsForStartedJobsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var finished int32
	runner := NewGoRoutineRunner[int]().SetMaxConcurrentJobs(1)
	runner.AddJob(func(ctx context.Context, index int) (int, error) {
		cancel()
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&finished, 1)
		return index, nil
	})
	runner.AddJob(func(ctx context.Context, index int) (int, error) {
		atomic.AddInt32(&finished, 1)
		return index, nil
	})

	_, _, err := runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), atomic.LoadInt32(&finished))
}

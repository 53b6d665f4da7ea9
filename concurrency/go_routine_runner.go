package concurrency

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

type GoRoutineRunner[T any] struct {
	jobs              []Job[T]
	maxConcurrentJobs int
	clearJobsAfterRun bool
}

type Job[T any] func(ctx context.Context, index int) (T, error)

const defaultMaxConcurrentJobs = 1000

func NewGoRoutineRunner[T any]() *GoRoutineRunner[T] {
	return &GoRoutineRunner[T]{
		jobs:              make([]Job[T], 0),
		maxConcurrentJobs: defaultMaxConcurrentJobs,
	}
}

// SetMaxConcurrentJobs caps parallelism, 0 restores the default and a
// negative value removes the cap
func (r *GoRoutineRunner[T]) SetMaxConcurrentJobs(maxConcurrentJobs int) *GoRoutineRunner[T] {
	if maxConcurrentJobs == 0 {
		maxConcurrentJobs = defaultMaxConcurrentJobs
	}
	r.maxConcurrentJobs = maxConcurrentJobs
	return r
}

func (r *GoRoutineRunner[T]) SetClearJobsAfterRun(clearJobsAfterRun bool) *GoRoutineRunner[T] {
	r.clearJobsAfterRun = clearJobsAfterRun
	return r
}

func (r *GoRoutineRunner[T]) AddJob(jobs ...Job[T]) *GoRoutineRunner[T] {
	r.jobs = append(r.jobs, jobs...)
	return r
}

// Run executes every job and returns results and errors indexed like the jobs.
// The third return value is only set when the runner itself could not finish.
func (r *GoRoutineRunner[T]) Run(ctx context.Context) ([]T, []error, error) {
	if len(r.jobs) == 0 {
		return nil, nil, fmt.Errorf("no jobs to run")
	}

	results := make([]T, len(r.jobs))
	errs := make([]error, len(r.jobs))

	maxConcurrentJobs := r.maxConcurrentJobs
	if maxConcurrentJobs <= 0 || maxConcurrentJobs > len(r.jobs) {
		maxConcurrentJobs = len(r.jobs)
	}

	sem := semaphore.NewWeighted(int64(maxConcurrentJobs))

	for jobIndex, job := range r.jobs {
		if err := sem.Acquire(ctx, 1); err != nil {
			// let the started jobs finish before results goes away
			_ = sem.Acquire(context.Background(), int64(maxConcurrentJobs))
			return nil, nil, err
		}

		go func(resultIndex int, job Job[T]) {
			defer sem.Release(1)
			result, err := job(ctx, resultIndex)
			results[resultIndex] = result
			errs[resultIndex] = err
		}(jobIndex, job)
	}

	// wait for the in-flight jobs
	if err := sem.Acquire(context.Background(), int64(maxConcurrentJobs)); err != nil {
		return nil, nil, err
	}

	if r.clearJobsAfterRun {
		r.jobs = make([]Job[T], 0)
	}

	return results, errs, nil
}

// FirstError returns the error of the lowest indexed failed job
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

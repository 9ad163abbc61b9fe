package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (r *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sleeps = append(r.sleeps, d)
	return nil
}

func TestDBInitializer_SucceedsFirstTry(t *testing.T) {
	checker := new(MockSchemaChecker)
	checker.On("CheckSchema", mock.Anything).Return(nil).Once()
	rec := &sleepRecorder{}
	guard := services.NewDBInitializer(checker, services.WithInitSleep(rec.sleep))

	assert.False(t, guard.IsReady())
	require.NoError(t, guard.EnsureReady(context.Background()))
	assert.True(t, guard.IsReady())

	// success is remembered, no second check
	require.NoError(t, guard.EnsureReady(context.Background()))
	checker.AssertNumberOfCalls(t, "CheckSchema", 1)
	assert.Empty(t, rec.sleeps)
}

func TestDBInitializer_RetriesWithFixedBackoff(t *testing.T) {
	checker := new(MockSchemaChecker)
	checker.On("CheckSchema", mock.Anything).Return(errors.New("relation does not exist")).Twice()
	checker.On("CheckSchema", mock.Anything).Return(nil).Once()
	rec := &sleepRecorder{}
	guard := services.NewDBInitializer(checker, services.WithInitSleep(rec.sleep))

	require.NoError(t, guard.EnsureReady(context.Background()))
	assert.True(t, guard.IsReady())
	assert.Equal(t, []time.Duration{time.Second, time.Second}, rec.sleeps)
	checker.AssertExpectations(t)
}

func TestDBInitializer_GivesUpAfterMaxAttempts(t *testing.T) {
	checker := new(MockSchemaChecker)
	checker.On("CheckSchema", mock.Anything).Return(errors.New("connection refused"))
	rec := &sleepRecorder{}
	guard := services.NewDBInitializer(checker, services.WithInitSleep(rec.sleep))

	err := guard.EnsureReady(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotReady)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.False(t, guard.IsReady())
	checker.AssertNumberOfCalls(t, "CheckSchema", 3)
	assert.Len(t, rec.sleeps, 2, "no wait after the last attempt")

	// failure is not remembered; the next call checks again
	_ = guard.EnsureReady(context.Background())
	checker.AssertNumberOfCalls(t, "CheckSchema", 6)
}

func TestDBInitializer_CustomAttemptsAndBackoff(t *testing.T) {
	checker := new(MockSchemaChecker)
	checker.On("CheckSchema", mock.Anything).Return(errors.New("down"))
	rec := &sleepRecorder{}
	guard := services.NewDBInitializer(checker,
		services.WithInitAttempts(5),
		services.WithInitBackoff(250*time.Millisecond),
		services.WithInitSleep(rec.sleep))

	assert.ErrorIs(t, guard.EnsureReady(context.Background()), apperrors.ErrNotReady)
	checker.AssertNumberOfCalls(t, "CheckSchema", 5)
	assert.Len(t, rec.sleeps, 4)
	assert.Equal(t, 250*time.Millisecond, rec.sleeps[0])
}

func TestDBInitializer_ContextCancelledDuringBackoff(t *testing.T) {
	checker := new(MockSchemaChecker)
	checker.On("CheckSchema", mock.Anything).Return(errors.New("down"))
	sleeping := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	guard := services.NewDBInitializer(checker, services.WithInitSleep(func(context.Context, time.Duration) error {
		once.Do(func() { close(sleeping) })
		<-release
		return nil
	}))
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() { errs <- guard.EnsureReady(ctx) }()

	<-sleeping
	cancel()
	err := <-errs
	assert.ErrorIs(t, err, apperrors.ErrNotReady)
	assert.ErrorIs(t, err, context.Canceled)
	checker.AssertNumberOfCalls(t, "CheckSchema", 1)
}

func TestDBInitializer_CancelledContextSkipsCheck(t *testing.T) {
	checker := new(MockSchemaChecker)
	guard := services.NewDBInitializer(checker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, guard.EnsureReady(ctx), apperrors.ErrNotReady)
	checker.AssertNotCalled(t, "CheckSchema", mock.Anything)
}

func TestDBInitializer_CancelledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	checker := new(MockSchemaChecker)
	checker.On("CheckSchema", mock.Anything).Run(func(mock.Arguments) {
		once.Do(func() { close(started) })
		<-release
	}).Return(nil)
	guard := services.NewDBInitializer(checker)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() { errA <- guard.EnsureReady(ctxA) }()
	<-started

	errB := make(chan error, 1)
	go func() { errB <- guard.EnsureReady(context.Background()) }()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(release)
	assert.NoError(t, <-errB)
	assert.True(t, guard.IsReady())
	checker.AssertNumberOfCalls(t, "CheckSchema", 1)
}

func TestDBInitializer_ConcurrentCallersShareOneCheck(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	checker := new(MockSchemaChecker)
	checker.On("CheckSchema", mock.Anything).Run(func(mock.Arguments) {
		calls.Add(1)
		<-release
	}).Return(nil)
	guard := services.NewDBInitializer(checker)

	const callers = 10
	var started, done sync.WaitGroup
	errs := make(chan error, callers)
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			errs <- guard.EnsureReady(context.Background())
		}()
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	done.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.True(t, guard.IsReady())
	assert.Equal(t, int32(1), calls.Load(), "concurrent callers join the in-flight check")
}

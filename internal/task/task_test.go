package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDeliversFinishedResult(t *testing.T) {
	completed := make(chan struct{}, 1)
	bt := Run(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	}, func() { completed <- struct{}{} })

	outcome := bt.TakeResult()
	require.NotNil(t, outcome.Finished)
	assert.Equal(t, 42, *outcome.Finished)
	assert.False(t, outcome.Cancelled)

	select {
	case <-completed:
	case <-time.After(time.Second):
		t.Fatal("onComplete was never called")
	}
}

func TestRunReportsCancellation(t *testing.T) {
	started := make(chan struct{})
	bt := Run(context.Background(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	}, nil)

	<-started
	bt.Cancel()

	outcome := bt.TakeResult()
	assert.True(t, outcome.Cancelled)
	assert.Nil(t, outcome.Finished)
}

func TestHasResultReflectsCompletion(t *testing.T) {
	release := make(chan struct{})
	bt := Run(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	}, nil)

	assert.False(t, bt.HasResult())
	close(release)

	outcome := bt.TakeResult()
	assert.True(t, bt.HasResult())
	require.NotNil(t, outcome.Finished)
}

func TestCloseCancelsLikeCancel(t *testing.T) {
	started := make(chan struct{})
	bt := Run(context.Background(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, errors.New("cancelled mid-flight")
	}, nil)

	<-started
	bt.Close()

	outcome := bt.TakeResult()
	assert.True(t, outcome.Cancelled)
}

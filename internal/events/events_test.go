package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitInvokesRegisteredHandlersInOrder(t *testing.T) {
	e := New()
	var order []int

	e.On(EventProgress, func(data any) { order = append(order, 1) })
	e.On(EventProgress, func(data any) { order = append(order, 2) })

	e.Emit(EventProgress, Progress{Phase: "checking", Done: 1, Total: 10})

	assert.Equal(t, []int{1, 2}, order)
}

func TestEmitPassesDataToHandler(t *testing.T) {
	e := New()
	var got Progress

	e.On(EventProgress, func(data any) {
		got = data.(Progress)
	})
	e.Emit(EventProgress, Progress{Phase: "downloading", Done: 3, Total: 7})

	assert.Equal(t, "downloading", got.Phase)
	assert.EqualValues(t, 3, got.Done)
	assert.EqualValues(t, 7, got.Total)
}

func TestEmitWithNoListenersIsNoop(t *testing.T) {
	e := New()
	assert.NotPanics(t, func() {
		e.Emit(EventSyncStateChange, nil)
	})
}

func TestEmitOnlyInvokesMatchingEventName(t *testing.T) {
	e := New()
	called := false
	e.On(EventCheckingFiles, func(data any) { called = true })

	e.Emit(EventDownloadingFiles, nil)
	assert.False(t, called)

	e.Emit(EventCheckingFiles, nil)
	assert.True(t, called)
}

package controller_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasktracker/internal/controller"
	"github.com/nibzard/tasktracker/internal/task"
)

func start(t *testing.T, opts ...controller.Option) (*controller.Controller, context.Context) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	c := controller.New(opts...)
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Error("controller did not stop")
		}
	})
	return c, ctx
}

func TestDispatch_AppliesInOrder(t *testing.T) {
	c, ctx := start(t)

	for _, cmd := range []task.Command{
		task.Add{Input: task.Input{Title: "one"}},
		task.Add{Input: task.Input{Title: "two"}},
		task.Toggle{ID: 1},
	} {
		_, err := c.Dispatch(ctx, cmd)
		require.NoError(t, err)
	}

	s, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, task.Statistics{Total: 2, Completed: 1, Progress: 50}, s.Stats())
}

func TestDispatch_ReturnsReducerError(t *testing.T) {
	c, ctx := start(t)
	_, err := c.Dispatch(ctx, task.Add{Input: task.Input{Title: "one"}})
	require.NoError(t, err)

	s, err := c.Dispatch(ctx, task.Add{Input: task.Input{Title: "  "}})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)
	assert.Equal(t, 1, s.Len())

	_, err = c.Dispatch(ctx, task.Move{From: 0, To: 5})
	var re *task.RangeError
	assert.ErrorAs(t, err, &re)

	s, err = c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestDispatch_NilCommand(t *testing.T) {
	c := controller.New()
	_, err := c.Dispatch(context.Background(), nil)
	assert.Error(t, err)
}

func TestWithStore(t *testing.T) {
	initial, err := task.FromTasks([]task.Task{{ID: 3, Title: "seeded"}})
	require.NoError(t, err)
	c, ctx := start(t, controller.WithStore(initial))

	s, err := c.Dispatch(ctx, task.Add{Input: task.Input{Title: "next"}})

	require.NoError(t, err)
	assert.Equal(t, 4, s.At(1).ID)
}

func TestDispatch_ConcurrentCallersSerialized(t *testing.T) {
	c, ctx := start(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Dispatch(ctx, task.Add{Input: task.Input{Title: "task"}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := c.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, n, s.Len())
	seen := make(map[int]bool)
	for _, tsk := range s.Tasks() {
		assert.False(t, seen[tsk.ID], "duplicate id %d", tsk.ID)
		seen[tsk.ID] = true
	}
	assert.Equal(t, n+1, s.NextID())
}

func TestSubscribe_ReceivesUpdates(t *testing.T) {
	c, ctx := start(t)
	updates, cancel := c.Subscribe(8)
	defer cancel()

	_, err := c.Dispatch(ctx, task.Add{Input: task.Input{Title: "one"}})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, task.Add{Input: task.Input{Title: ""}})
	require.Error(t, err)
	_, err = c.Dispatch(ctx, task.Toggle{ID: 1})
	require.NoError(t, err)

	first := <-updates
	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, "add", first.Command.Name())
	assert.Equal(t, 1, first.Store.Len())

	second := <-updates
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, task.Toggle{ID: 1}, second.Command)
	assert.True(t, second.Store.At(0).Completed)

	select {
	case u := <-updates:
		t.Fatalf("unexpected update %+v", u)
	default:
	}
}

func TestSubscribe_SlowSubscriberKeepsLatest(t *testing.T) {
	c, ctx := start(t)
	updates, cancel := c.Subscribe(1)
	defer cancel()

	for i := 0; i < 5; i++ {
		_, err := c.Dispatch(ctx, task.Add{Input: task.Input{Title: "task"}})
		require.NoError(t, err)
	}

	u := <-updates
	assert.Equal(t, uint64(5), u.Seq)
	assert.Equal(t, 5, u.Store.Len())
}

func TestSubscribe_Cancel(t *testing.T) {
	c, _ := start(t)
	updates, cancel := c.Subscribe(0)

	cancel()
	cancel()

	_, ok := <-updates
	assert.False(t, ok)
}

func TestRun_StopClosesSubscribersAndRejectsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := controller.New()
	updates, unsubscribe := c.Subscribe(1)
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()
	_, err := c.Dispatch(ctx, task.Add{Input: task.Input{Title: "one"}})
	require.NoError(t, err)

	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	<-updates
	_, ok := <-updates
	assert.False(t, ok)

	_, err = c.Dispatch(context.Background(), task.Toggle{ID: 1})
	assert.ErrorIs(t, err, controller.ErrStopped)
	_, err = c.Snapshot(context.Background())
	assert.ErrorIs(t, err, controller.ErrStopped)

	late, _ := c.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}

func TestRun_Twice(t *testing.T) {
	c, ctx := start(t)
	// A completed round trip means the background Run owns the loop.
	_, err := c.Snapshot(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, controller.ErrAlreadyRunning))
	case <-time.After(2 * time.Second):
		t.Fatal("second Run did not return")
	}
}

func TestRun_TwiceWithCancelledContext(t *testing.T) {
	c, ctx := start(t)
	_, err := c.Snapshot(ctx)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Run(cancelled), controller.ErrAlreadyRunning)
}

func TestDispatch_ContextCancelledBeforeRun(t *testing.T) {
	c := controller.New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Dispatch(ctx, task.Toggle{ID: 1})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogsAppliedAndRejectedCommands(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel, Formatter: log.LogfmtFormatter})
	c, ctx := start(t, controller.WithLogger(logger))

	_, err := c.Dispatch(ctx, task.Add{Input: task.Input{Title: "one"}})
	require.NoError(t, err)
	_, err = c.Dispatch(ctx, task.Move{From: 0, To: 9})
	require.Error(t, err)
	_, err = c.Snapshot(ctx)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="applied add"`)
	assert.Contains(t, out, "total=1")
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, `msg="rejected move"`)
}

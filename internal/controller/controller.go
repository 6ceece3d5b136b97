// Package controller owns the current task list and applies commands to it
// one at a time.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker/internal/task"
)

var (
	// ErrStopped is returned when the controller is no longer running.
	ErrStopped = errors.New("controller stopped")
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("controller already running")
)

// DefaultSubscriberBuffer is the channel size used by Subscribe when the
// requested size is not positive.
const DefaultSubscriberBuffer = 16

// Update is published to subscribers after every successful command.
type Update struct {
	Seq     uint64
	Command task.Command
	Store   task.Store
}

// Option configures a Controller.
type Option func(*Controller)

// WithStore sets the initial task list.
func WithStore(s task.Store) Option {
	return func(c *Controller) {
		c.store = s
	}
}

// WithLogger sets the logger used to record applied commands.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller serializes commands from any number of presenters onto a
// single task.Store. Only the goroutine running Run touches the store.
type Controller struct {
	logger   *log.Logger
	requests chan request
	done     chan struct{}
	running  atomic.Bool

	// owned by Run
	store task.Store
	seq   uint64

	mu      sync.Mutex
	subs    map[int]chan Update
	nextSub int
	stopped bool
}

type request struct {
	cmd      task.Command
	snapshot bool
	reply    chan result
}

type result struct {
	store task.Store
	err   error
}

// New creates a controller. Call Run to start processing commands.
func New(opts ...Option) *Controller {
	c := &Controller{
		logger:   log.New(io.Discard),
		requests: make(chan request),
		done:     make(chan struct{}),
		store:    task.New(),
		subs:     make(map[int]chan Update),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run applies commands in arrival order until ctx is cancelled. It closes
// every subscriber channel before returning ctx.Err().
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.shutdown()

	c.logger.Debug("controller started", "tasks", c.store.Len(), "next_id", c.store.NextID())

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("controller stopping", "reason", ctx.Err())
			return ctx.Err()
		case req := <-c.requests:
			req.reply <- c.handle(req)
		}
	}
}

func (c *Controller) handle(req request) result {
	if req.snapshot {
		return result{store: c.store}
	}

	next, err := task.Reduce(c.store, req.cmd)
	if err != nil {
		c.logError(req.cmd, err)
		return result{store: c.store, err: err}
	}

	c.store = next
	c.seq++
	c.logApplied(req.cmd, next)
	c.publish(Update{Seq: c.seq, Command: req.cmd, Store: next})
	return result{store: next}
}

func (c *Controller) logApplied(cmd task.Command, s task.Store) {
	st := s.Stats()
	fields := task.Fields(cmd)
	fields = append(fields,
		"seq", c.seq,
		"total", st.Total,
		"completed", st.Completed,
		"progress", fmt.Sprintf("%.0f%%", st.Progress),
	)
	c.logger.Info("applied "+cmd.Name(), fields...)
}

func (c *Controller) logError(cmd task.Command, err error) {
	fields := append(task.Fields(cmd), "err", err)
	var re *task.RangeError
	if errors.As(err, &re) {
		c.logger.Error("rejected "+cmd.Name(), fields...)
		return
	}
	c.logger.Warn("rejected "+cmd.Name(), fields...)
}

// Dispatch sends cmd to the controller and waits for the resulting store.
// Reducer errors are returned as is and leave the store unchanged. If ctx
// ends after the command was queued, the command may still be applied.
func (c *Controller) Dispatch(ctx context.Context, cmd task.Command) (task.Store, error) {
	if cmd == nil {
		return task.Store{}, fmt.Errorf("dispatch: nil command")
	}
	return c.roundTrip(ctx, request{cmd: cmd})
}

// Snapshot returns the current store after every previously dispatched
// command has been applied.
func (c *Controller) Snapshot(ctx context.Context) (task.Store, error) {
	return c.roundTrip(ctx, request{snapshot: true})
}

func (c *Controller) roundTrip(ctx context.Context, req request) (task.Store, error) {
	req.reply = make(chan result, 1)

	select {
	case c.requests <- req:
	case <-ctx.Done():
		return task.Store{}, ctx.Err()
	case <-c.done:
		return task.Store{}, ErrStopped
	}

	select {
	case r := <-req.reply:
		return r.store, r.err
	case <-ctx.Done():
		return task.Store{}, ctx.Err()
	case <-c.done:
		select {
		case r := <-req.reply:
			return r.store, r.err
		default:
			return task.Store{}, ErrStopped
		}
	}
}

// Subscribe registers for updates. The returned channel receives the
// latest update; when the subscriber falls behind, older updates are
// dropped. The channel is closed by the returned cancel function or when
// Run returns.
func (c *Controller) Subscribe(buffer int) (<-chan Update, func()) {
	if buffer < 1 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan Update, buffer)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
}

func (c *Controller) publish(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- u:
			continue
		default:
		}
		// Full: drop the oldest queued update to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- u:
		default:
		}
	}
}

func (c *Controller) shutdown() {
	close(c.done)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

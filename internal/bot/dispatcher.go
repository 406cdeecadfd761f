package bot

import (
	"context"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"
)

type chatQueue struct {
	pool    *workerpool.WorkerPool
	pending int
}

// Dispatcher runs events concurrently across chats and sequentially within a
// chat. Each chat with queued work owns a single-worker pool; the pool is
// released once its queue drains.
type Dispatcher struct {
	handle func(ctx context.Context, ev Event)
	log    zerolog.Logger

	// handler context, outlives consumption so in-flight work can finish
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	queues  map[int64]*chatQueue
	stopped bool
	wg      sync.WaitGroup
}

func NewDispatcher(handle func(ctx context.Context, ev Event), log zerolog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		handle: handle,
		log:    log.With().Str("component", "dispatcher").Logger(),
		ctx:    ctx,
		cancel: cancel,
		queues: make(map[int64]*chatQueue),
	}
}

// Submit queues ev behind earlier events of the same chat. It never blocks on
// handling.
func (d *Dispatcher) Submit(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.log.Warn().Int64("chat_id", ev.ChatID).Msg("dispatcher stopped, event dropped")
		return
	}

	q, ok := d.queues[ev.ChatID]
	if !ok {
		q = &chatQueue{pool: workerpool.New(1)}
		d.queues[ev.ChatID] = q
	}
	q.pending++
	d.wg.Add(1)

	q.pool.Submit(func() {
		defer d.done(ev.ChatID, q)
		d.handle(d.ctx, ev)
	})
}

func (d *Dispatcher) done(chatID int64, q *chatQueue) {
	d.mu.Lock()
	defer d.mu.Unlock()

	q.pending--
	if q.pending == 0 && d.queues[chatID] == q {
		delete(d.queues, chatID)
		// Stop waits for the worker, which is the caller here.
		go q.pool.Stop()
	}
	d.wg.Done()
}

// Stop rejects new events and waits for queued ones to finish. If ctx ends
// first, the handler context is canceled and ctx.Err() is returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	defer d.cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.log.Warn().Msg("abandoning in-flight handlers")
		return ctx.Err()
	}
}

package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueCount(d *Dispatcher) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queues)
}

func TestDispatcher_PreservesOrderWithinChat(t *testing.T) {
	var mu sync.Mutex
	var got []int

	d := NewDispatcher(func(ctx context.Context, ev Event) {
		time.Sleep(time.Millisecond)
		mu.Lock()
		got = append(got, ev.MessageID)
		mu.Unlock()
	}, zerolog.Nop())

	want := make([]int, 0, 20)
	for i := 1; i <= 20; i++ {
		d.Submit(Event{ChatID: 1, MessageID: i})
		want = append(want, i)
	}

	require.NoError(t, d.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got)
}

func TestDispatcher_SlowChatDoesNotBlockOthers(t *testing.T) {
	release := make(chan struct{})
	handled := make(chan int64, 2)

	d := NewDispatcher(func(ctx context.Context, ev Event) {
		if ev.ChatID == 1 {
			<-release
		}
		handled <- ev.ChatID
	}, zerolog.Nop())

	d.Submit(Event{ChatID: 1, MessageID: 1})
	d.Submit(Event{ChatID: 2, MessageID: 2})

	select {
	case chatID := <-handled:
		assert.Equal(t, int64(2), chatID)
	case <-time.After(2 * time.Second):
		t.Fatal("chat 2 was blocked by chat 1")
	}

	close(release)
	assert.Equal(t, int64(1), <-handled)
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_SubmitDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	d := NewDispatcher(func(ctx context.Context, ev Event) {
		<-release
	}, zerolog.Nop())

	submitted := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Submit(Event{ChatID: 1, MessageID: i})
		}
		close(submitted)
	}()

	select {
	case <-submitted:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a busy chat")
	}

	close(release)
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_ReleasesIdleChats(t *testing.T) {
	d := NewDispatcher(func(ctx context.Context, ev Event) {}, zerolog.Nop())

	for chatID := int64(1); chatID <= 5; chatID++ {
		d.Submit(Event{ChatID: chatID})
	}

	assert.Eventually(t, func() bool { return queueCount(d) == 0 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_StopWaitsForInFlight(t *testing.T) {
	started := make(chan struct{})
	var finished bool

	d := NewDispatcher(func(ctx context.Context, ev Event) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished = true
	}, zerolog.Nop())

	d.Submit(Event{ChatID: 1})
	<-started

	require.NoError(t, d.Stop(context.Background()))
	assert.True(t, finished)
}

func TestDispatcher_StopDeadlineCancelsHandlers(t *testing.T) {
	started := make(chan struct{})
	canceled := make(chan struct{})

	d := NewDispatcher(func(ctx context.Context, ev Event) {
		close(started)
		<-ctx.Done()
		close(canceled)
	}, zerolog.Nop())

	d.Submit(Event{ChatID: 1})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("handler context was not canceled")
	}
}

func TestDispatcher_SubmitAfterStopDropped(t *testing.T) {
	called := make(chan struct{}, 1)
	d := NewDispatcher(func(ctx context.Context, ev Event) {
		called <- struct{}{}
	}, zerolog.Nop())

	require.NoError(t, d.Stop(context.Background()))
	d.Submit(Event{ChatID: 1})

	select {
	case <-called:
		t.Fatal("event handled after stop")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 0, queueCount(d))
}

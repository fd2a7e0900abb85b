package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"henalis/pkg/events"
)

type fakeAcknowledger struct {
	mu      sync.Mutex
	acked   []uint64
	nacked  []uint64
	requeue []bool
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, tag)
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked = append(f.nacked, tag)
	f.requeue = append(f.requeue, requeue)
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.acked), len(f.nacked)
}

func delivery(ack amqp.Acknowledger, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{
		Acknowledger: ack,
		DeliveryTag:  tag,
		RoutingKey:   "item.deleted.v1",
		Headers:      amqp.Table{"x-trace-id": "trace-1"},
		Body:         []byte(body),
	}
}

const deletedEvent = `{"event":"item.deleted","version":"v1","payload":{"ids":["a"],"storagePaths":["items/a.jpg"]}}`

func TestHandleMessageAcksProcessedEvents(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newConsumer(ConsumerConfig{QueueName: "q"})

	var got *events.Event
	var hasDeadline bool
	c.handleMessage(context.Background(), delivery(ack, 7, deletedEvent), func(ctx context.Context, e *events.Event) error {
		got = e
		_, hasDeadline = ctx.Deadline()
		return nil
	})

	require.NotNil(t, got)
	assert.Equal(t, "item.deleted", got.Event)
	assert.True(t, hasDeadline)
	assert.Equal(t, []uint64{7}, ack.acked)
	assert.Empty(t, ack.nacked)
	assert.Equal(t, int64(1), c.Stats().Processed)
}

func TestHandleMessageDeadLettersFailures(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newConsumer(ConsumerConfig{QueueName: "q"})

	called := false
	c.handleMessage(context.Background(), delivery(ack, 1, "{not json"), func(context.Context, *events.Event) error {
		called = true
		return nil
	})
	assert.False(t, called)

	c.handleMessage(context.Background(), delivery(ack, 2, deletedEvent), func(context.Context, *events.Event) error {
		return errors.New("storage unavailable")
	})

	assert.Empty(t, ack.acked)
	assert.Equal(t, []uint64{1, 2}, ack.nacked)
	assert.Equal(t, []bool{false, false}, ack.requeue)
	assert.Equal(t, int64(2), c.Stats().Failed)
}

func TestDispatchBoundsConcurrencyByPoolSize(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newConsumer(ConsumerConfig{QueueName: "q", WorkerPoolSize: 2})

	msgs := make(chan amqp.Delivery, 6)
	for i := range 6 {
		msgs <- delivery(ack, uint64(i+1), deletedEvent)
	}
	close(msgs)

	var running, peak atomic.Int32
	err := c.dispatch(context.Background(), msgs, func(context.Context, *events.Event) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return nil
	})

	assert.EqualError(t, err, "message channel closed")
	acked, nacked := ack.counts()
	assert.Equal(t, 6, acked)
	assert.Zero(t, nacked)
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, PoolStats{Size: 2, Processed: 6}, c.Stats())
}

func TestDispatchLetsInFlightMessagesFinishOnShutdown(t *testing.T) {
	ack := &fakeAcknowledger{}
	c := newConsumer(ConsumerConfig{QueueName: "q", WorkerPoolSize: 1})

	msgs := make(chan amqp.Delivery, 1)
	msgs <- delivery(ack, 1, deletedEvent)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var handlerErr error
	done := make(chan error, 1)
	go func() {
		done <- c.dispatch(ctx, msgs, func(hctx context.Context, _ *events.Event) error {
			close(started)
			time.Sleep(20 * time.Millisecond)
			handlerErr = hctx.Err()
			return nil
		})
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not stop")
	}
	assert.NoError(t, handlerErr)
	acked, _ := ack.counts()
	assert.Equal(t, 1, acked)
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	exchange string
	events   []*Event
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, exchange string, event *Event, _ Headers) error {
	p.exchange = exchange
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func TestEmitterPublishesToShopExchange(t *testing.T) {
	pub := &recordingPublisher{}
	NewEmitter(pub, "henalis").Emit(context.Background(), ItemLikedEvent, ItemLikedPayload{ID: "i-1", Likes: 4})

	require.Len(t, pub.events, 1)
	assert.Equal(t, ShopExchange, pub.exchange)
	assert.Equal(t, "item.liked.v1", pub.events[0].GetRoutingKey())
	assert.NotEmpty(t, pub.events[0].TraceID)
}

func TestEmitterWithoutPublisherIsANoOp(t *testing.T) {
	var nilEmitter *Emitter
	assert.False(t, nilEmitter.Enabled())
	nilEmitter.Emit(context.Background(), ItemCreatedEvent, nil)

	e := NewEmitter(nil, "henalis")
	assert.False(t, e.Enabled())
	e.Emit(context.Background(), ItemCreatedEvent, nil)
}

func TestEmitterSwallowsPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	NewEmitter(pub, "henalis").Emit(context.Background(), ItemCreatedEvent, ItemPayload{ID: "i-1"})
	assert.Len(t, pub.events, 1)
}

func TestDecodePayloadRoundTripsThroughJSON(t *testing.T) {
	raw := []byte(`{"event":"item.deleted","version":"v1","payload":{"ids":["a"],"storagePaths":["items/a.jpg"]}}`)

	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))

	var payload ItemDeletedPayload
	require.NoError(t, event.DecodePayload(&payload))
	assert.Equal(t, []string{"a"}, payload.IDs)
	assert.Equal(t, []string{"items/a.jpg"}, payload.StoragePaths)
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-academica/academic-service/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(GradeRecorded, map[string]interface{}{"ra": "1234567890123"})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, GradeRecorded, e.Type)
	assert.Equal(t, EventSource, e.Source)
	assert.Equal(t, EventVersion, e.Version)
	assert.False(t, e.Timestamp.IsZero())
}

func TestWatermillPublisher_DeliversJSON(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 1}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, "academic.events")
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub, "academic.events", testLogger())
	event := NewEvent(UserRegistered, map[string]interface{}{"id_usuario": 1})
	require.NoError(t, publisher.Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, event.ID, msg.UUID)
		assert.Equal(t, string(UserRegistered), msg.Metadata.Get(metadataEventType))

		var got Event
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, UserRegistered, got.Type)
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}

func TestNewPublisher_DefaultsToChannel(t *testing.T) {
	p, err := NewPublisher(config.EventsConfig{Topic: "academic.events"}, testLogger())
	require.NoError(t, err)
	defer p.Close()

	// no subscriber: the in-process channel drops the message
	assert.NoError(t, p.Publish(context.Background(), NewEvent(UserDeleted, nil)))
}

func TestMockEventPublisher(t *testing.T) {
	m := NewMockEventPublisher(testLogger())
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, NewEvent(UserRegistered, nil)))
	require.NoError(t, m.Publish(ctx, NewEvent(GradeRecorded, nil)))
	require.Len(t, m.GetPublishedEvents(), 2)

	m.ClearEvents()
	assert.Empty(t, m.GetPublishedEvents())

	boom := errors.New("broker down")
	m.FailWith(boom)
	assert.ErrorIs(t, m.Publish(ctx, NewEvent(UserDeleted, nil)), boom)
	assert.Empty(t, m.GetPublishedEvents())
}

package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dietlog/server/pkg/eventstream"
	"github.com/dietlog/server/pkg/eventstream/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTopic struct {
	Owner string
}

type testEvent struct {
	ID string
}

func receive(t *testing.T, ch <-chan eventstream.Event[testTopic, testEvent]) eventstream.Event[testTopic, testEvent] {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "channel closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("did not receive event within timeout")
	}
	return eventstream.Event[testTopic, testEvent]{}
}

func TestPublishSubscribe(t *testing.T) {
	streamer := memory.NewInMemorySyncStreamer[testTopic, testEvent]()
	defer streamer.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := streamer.Subscribe(ctx, nil)
	require.NoError(t, err)

	streamer.Publish(testTopic{Owner: "a"}, testEvent{ID: "1"}, testEvent{ID: "2"})

	first := receive(t, events)
	second := receive(t, events)
	assert.Equal(t, testTopic{Owner: "a"}, first.Topic)
	assert.Equal(t, "1", first.Payload.ID)
	assert.Equal(t, "2", second.Payload.ID)
}

func TestTopicFilter(t *testing.T) {
	streamer := memory.NewInMemorySyncStreamer[testTopic, testEvent]()
	defer streamer.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine, err := streamer.Subscribe(ctx, func(topic testTopic) bool { return topic.Owner == "a" })
	require.NoError(t, err)

	streamer.Publish(testTopic{Owner: "b"}, testEvent{ID: "other"})
	streamer.Publish(testTopic{Owner: "a"}, testEvent{ID: "mine"})

	assert.Equal(t, "mine", receive(t, mine).Payload.ID)
	select {
	case evt := <-mine:
		t.Fatalf("unexpected event %+v", evt)
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	streamer := memory.NewInMemorySyncStreamer[testTopic, testEvent]()
	defer streamer.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := streamer.Subscribe(ctx, nil)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "expected channel to be closed after context cancellation")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed within timeout")
	}
}

func TestShutdown(t *testing.T) {
	streamer := memory.NewInMemorySyncStreamer[testTopic, testEvent]()

	events, err := streamer.Subscribe(context.Background(), nil)
	require.NoError(t, err)

	streamer.Shutdown()
	streamer.Shutdown()

	_, ok := <-events
	assert.False(t, ok)

	_, err = streamer.Subscribe(context.Background(), nil)
	assert.ErrorIs(t, err, memory.ErrStreamerClosed)

	// Publishing after shutdown is a no-op.
	streamer.Publish(testTopic{Owner: "a"}, testEvent{ID: "late"})
}

func TestSlowSubscriberMissesEvents(t *testing.T) {
	streamer := memory.NewInMemorySyncStreamerWithBuffer[testTopic, testEvent](2)
	defer streamer.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := streamer.Subscribe(ctx, nil)
	require.NoError(t, err)

	streamer.Publish(testTopic{}, testEvent{ID: "1"}, testEvent{ID: "2"}, testEvent{ID: "3"})

	assert.Equal(t, "1", receive(t, events).Payload.ID)
	assert.Equal(t, "2", receive(t, events).Payload.ID)
	select {
	case evt := <-events:
		t.Fatalf("event beyond buffer delivered: %+v", evt)
	default:
	}
}

func TestStreamToClient(t *testing.T) {
	streamer := memory.NewInMemorySyncStreamer[testTopic, testEvent]()
	defer streamer.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errStop := errors.New("stop")
	sent := make(chan string, 1024)
	done := make(chan error, 1)
	go func() {
		done <- eventstream.StreamToClient(ctx, streamer, nil,
			func(e testEvent) *string {
				if e.ID == "skip" {
					return nil
				}
				return &e.ID
			},
			func(id *string) error {
				sent <- *id
				if *id == "last" {
					return errStop
				}
				return nil
			},
		)
	}()

	// Publish until the subscription is live.
	deadline := time.After(time.Second)
	for len(sent) == 0 {
		streamer.Publish(testTopic{}, testEvent{ID: "skip"}, testEvent{ID: "first"})
		select {
		case <-deadline:
			t.Fatal("stream never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	streamer.Publish(testTopic{}, testEvent{ID: "last"})

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errStop)
	case <-time.After(time.Second):
		t.Fatal("stream did not stop")
	}
	assert.Equal(t, "first", <-sent)
}

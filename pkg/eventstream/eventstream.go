// Package eventstream fans out events to subscribers filtered by topic.
package eventstream

import "context"

// Event pairs a payload with the topic it was published on.
type Event[Topic any, Payload any] struct {
	Topic   Topic
	Payload Payload
}

// TopicFilter selects the topics a subscriber wants to see.
type TopicFilter[Topic any] func(Topic) bool

// SyncStreamer delivers published events to every matching subscriber.
//
//	streamer := memory.NewInMemorySyncStreamer[OwnerTopic, OrderEvent]()
//	events, _ := streamer.Subscribe(ctx, func(t OwnerTopic) bool { return t == mine })
//	streamer.Publish(mine, evt)
type SyncStreamer[Topic any, Payload any] interface {
	// Subscribe returns a channel that is closed when ctx is done or the
	// streamer shuts down. A nil filter receives every topic.
	Subscribe(ctx context.Context, filter TopicFilter[Topic]) (<-chan Event[Topic, Payload], error)

	// Publish never blocks; a subscriber whose buffer is full misses the
	// event.
	Publish(topic Topic, payloads ...Payload)

	// Shutdown closes every subscriber channel.
	Shutdown()
}

// StreamToClient subscribes with filter and forwards converted payloads to
// send until ctx ends, the stream closes, or send fails. A nil conversion
// result is skipped.
func StreamToClient[Topic any, Payload any, Response any](
	ctx context.Context,
	streamer SyncStreamer[Topic, Payload],
	filter TopicFilter[Topic],
	convert func(Payload) *Response,
	send func(*Response) error,
) error {
	events, err := streamer.Subscribe(ctx, filter)
	if err != nil {
		return err
	}
	return Forward(ctx, events, convert, send)
}

// Forward is StreamToClient for callers that must subscribe before they can
// start sending, such as handlers that write response headers first.
func Forward[Topic any, Payload any, Response any](
	ctx context.Context,
	events <-chan Event[Topic, Payload],
	convert func(Payload) *Response,
	send func(*Response) error,
) error {
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			if msg := convert(evt.Payload); msg != nil {
				if err := send(msg); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

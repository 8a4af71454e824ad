// Package eventbus publishes run lifecycle events over an in-process
// watermill pub/sub channel.
package eventbus

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/flowlinehq/flowline/pkg/events"
)

// EventHandler handles one decoded lifecycle event.
type EventHandler func(ctx context.Context, event events.Event) error

// EventBus publishes and subscribes to run lifecycle events.
type EventBus interface {
	Publish(ctx context.Context, event events.Event) error
	Subscribe(ctx context.Context, handler EventHandler) error
	Close() error
}

// WatermillEventBus carries events over a watermill publisher/subscriber
// pair. The default wiring uses an in-process GoChannel, so the bus works
// without any external broker.
type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
}

// NewGoChannelEventBus creates an in-process event bus.
func NewGoChannelEventBus(logger watermill.LoggerAdapter) *WatermillEventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 1000,
			Persistent:          false,
		},
		logger,
	)

	return &WatermillEventBus{publisher: pubSub, subscriber: pubSub}
}

// NewWatermillEventBus wraps an existing publisher/subscriber pair.
func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{publisher: pub, subscriber: sub}
}

func (eb *WatermillEventBus) Publish(_ context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+watermill.NewULID(), payload)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context, handler EventHandler) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			event, err := decodeEvent(msg)
			if err != nil {
				msg.Nack()

				continue
			}

			if err := handler(ctx, event); err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (eb *WatermillEventBus) Close() error {
	return eb.publisher.Close()
}

func decodeEvent(msg *message.Message) (events.Event, error) {
	eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

	switch eventType {
	case events.ExecutionStartedEvent:
		var event events.ExecutionStarted

		return &event, json.Unmarshal(msg.Payload, &event)
	case events.StepFinishedEvent:
		var event events.StepFinished

		return &event, json.Unmarshal(msg.Payload, &event)
	case events.ExecutionCompletedEvent:
		var event events.ExecutionCompleted

		return &event, json.Unmarshal(msg.Payload, &event)
	case events.ExecutionFailedEvent:
		var event events.ExecutionFailed

		return &event, json.Unmarshal(msg.Payload, &event)
	case events.ExecutionSuspendedEvent:
		var event events.ExecutionSuspended

		return &event, json.Unmarshal(msg.Payload, &event)
	default:
		var event events.BaseEvent

		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return nil, err
		}

		return unknownEvent{event}, nil
	}
}

// unknownEvent wraps a BaseEvent whose type is not recognized, so
// subscribers still see it instead of it being dropped silently.
type unknownEvent struct {
	events.BaseEvent
}

func (e unknownEvent) GetType() events.EventType { return e.Type }

package queue

import (
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Queue is the fire-and-forget task handoff used by the synchronous request
// path. Callers never await delivery; retries belong to the consumer side.
type Queue interface {
	Enqueue(taskName string, payload interface{}) error
}

// WatermillQueue publishes tasks to a Watermill pub/sub, one topic per task
// name, with JSON payloads.
type WatermillQueue struct {
	publisher message.Publisher
}

// NewWatermillQueue creates a queue over any Watermill publisher.
func NewWatermillQueue(publisher message.Publisher) *WatermillQueue {
	return &WatermillQueue{publisher: publisher}
}

func (q *WatermillQueue) Enqueue(taskName string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	return q.publisher.Publish(taskName, msg)
}

// NewGoChannelPubSub builds the in-process pub/sub backing both the queue
// publisher and the worker subscriber.
func NewGoChannelPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)
}

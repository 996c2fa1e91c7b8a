package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/lmartins/shortly/internal/messaging"
	"go.uber.org/zap"
)

// NewConsumerGroup wires one consumer per lifecycle topic, all persisting
// into store.
func NewConsumerGroup(subscriber message.Subscriber, store Store, logger *zap.Logger) *messaging.ConsumerGroup {
	group := messaging.NewConsumerGroup(subscriber, logger)

	group.Add(messaging.NewConsumer(subscriber, TopicLinkCreated, store.SaveLinkCreated, logger))
	group.Add(messaging.NewConsumer(subscriber, TopicLinkVisited, store.SaveLinkVisited, logger))
	group.Add(messaging.NewConsumer(subscriber, TopicLinkDeleted, store.SaveLinkDeleted, logger))

	return group
}

package events

import (
	"context"
	"encoding/json"

	"github.com/juju/errors"
	"github.com/redis/go-redis/v9"
)

const OrderCreatedChannel = "storefront:events:order_created"

// RedisPublisher is the part of *redis.Client used for pub/sub fan-out.
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type redisSubscriber struct {
	client RedisPublisher
}

// NewRedisSubscriber broadcasts order_created envelopes on a Redis channel.
func NewRedisSubscriber(client RedisPublisher) Subscriber {
	return &redisSubscriber{client: client}
}

func (s *redisSubscriber) Handle(ctx context.Context, ev Event) error {
	if ev.Name != OrderCreated {
		return nil
	}
	body, err := json.Marshal(orderCreatedEnvelope(ev))
	if err != nil {
		return errors.Annotate(err, "marshal order_created")
	}
	return errors.Annotate(s.client.Publish(ctx, OrderCreatedChannel, body).Err(), "redis publish")
}

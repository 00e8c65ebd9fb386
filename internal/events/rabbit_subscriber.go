package events

import (
	"context"
	"encoding/json"

	"github.com/juju/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	Exchange               = "storefront.events"
	RoutingKeyOrderCreated = "order.created.v1"
)

// AMQPChannel is the publishing half of *amqp.Channel.
type AMQPChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPConnection is the part of *amqp.Connection needed to open a publishing channel.
type AMQPConnection interface {
	Channel() (*amqp.Channel, error)
}

type rabbitSubscriber struct {
	ch AMQPChannel
}

func NewRabbitSubscriber(ch AMQPChannel) Subscriber {
	return &rabbitSubscriber{ch: ch}
}

// OpenRabbitChannel opens a channel and declares the durable topic exchange
// events are published to.
func OpenRabbitChannel(conn AMQPConnection) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Annotate(err, "open channel")
	}
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, errors.Annotatef(err, "declare exchange %s", Exchange)
	}
	return ch, nil
}

func (s *rabbitSubscriber) Handle(ctx context.Context, ev Event) error {
	if ev.Name != OrderCreated {
		return nil
	}
	body, err := json.Marshal(orderCreatedEnvelope(ev))
	if err != nil {
		return errors.Annotate(err, "marshal order_created")
	}

	err = s.ch.PublishWithContext(ctx, Exchange, RoutingKeyOrderCreated, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID.String(),
		Timestamp:    ev.OccurredAt,
		Type:         orderCreatedSchema,
		Body:         body,
	})
	return errors.Annotate(err, "amqp publish")
}

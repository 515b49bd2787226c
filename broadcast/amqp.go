package broadcast

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Benvin-888/electronic-voting-backened/logging"
)

// AMQPBroadcaster publishes events to a topic exchange so observers can
// subscribe by routing-key pattern (e.g. "vote.*").
type AMQPBroadcaster struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func NewAMQPBroadcaster(amqpURL, exchange string) (*AMQPBroadcaster, error) {
	conn, err := amqp091.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPBroadcaster{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

func (b *AMQPBroadcaster) VoteRecorded(ctx context.Context, event VoteRecordedEvent) error {
	return b.publish(ctx, RoutingKeyVoteRecorded, event)
}

func (b *AMQPBroadcaster) PortalStatus(ctx context.Context, event PortalStatusEvent) error {
	return b.publish(ctx, RoutingKeyPortalStatus, event)
}

func (b *AMQPBroadcaster) publish(ctx context.Context, routingKey string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	err = b.channel.PublishWithContext(ctx,
		b.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        payload,
		})
	if err != nil {
		logging.Log.Warnf("BROADCAST: publish %s failed: %v", routingKey, err)
		return err
	}
	return nil
}

func (b *AMQPBroadcaster) Close() error {
	if err := b.channel.Close(); err != nil {
		return err
	}
	return b.conn.Close()
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/streadway/amqp"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/shell"
)

const (
	routingKeyPrefix = "circulation.notification."
	contentTypeJSON  = "application/json"
)

var (
	// ErrEmptyExchange is returned when no exchange name is configured.
	ErrEmptyExchange = errors.New("amqp exchange must not be empty")

	// ErrNilChannel is returned when NewAMQPPublisher gets no channel.
	ErrNilChannel = errors.New("amqp channel must not be nil")

	// ErrPublishFailed wraps broker errors of Notify.
	ErrPublishFailed = errors.New("publishing notification failed")
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Message is the JSON body of a published notification.
type Message struct {
	Kind        core.NotificationKind `json:"kind"`
	MemberID    core.MemberIDString   `json:"member_id"`
	BookID      core.BookIDString     `json:"book_id"`
	LibraryID   core.LibraryIDString  `json:"library_id"`
	ReferenceID string                `json:"reference_id"`
	Deadline    time.Time             `json:"deadline"`
	OccurredAt  time.Time             `json:"occurred_at"`
}

// AMQPPublisher publishes notifications as persistent messages to a topic exchange.
// The routing key is circulation.notification.<kind>, e.g. circulation.notification.reservation_ready.
type AMQPPublisher struct {
	channel    Channel
	connection *amqp.Connection
	exchange   string
}

// DialAMQP connects to the broker, opens a channel and declares the exchange.
func DialAMQP(url string, exchange string) (*AMQPPublisher, error) {
	connection, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to amqp broker: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	publisher, err := NewAMQPPublisher(channel, exchange)
	if err != nil {
		_ = channel.Close()
		_ = connection.Close()
		return nil, err
	}

	publisher.connection = connection

	return publisher, nil
}

// NewAMQPPublisher declares the durable topic exchange on channel and returns the publisher.
func NewAMQPPublisher(channel Channel, exchange string) (*AMQPPublisher, error) {
	if channel == nil {
		return nil, ErrNilChannel
	}

	if exchange == "" {
		return nil, ErrEmptyExchange
	}

	err := channel.ExchangeDeclare(
		exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{
		channel:  channel,
		exchange: exchange,
	}, nil
}

// Notify publishes the notification. The correlation id of ctx travels in the message.
func (p *AMQPPublisher) Notify(ctx context.Context, notification core.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(Message(notification))
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	err = p.channel.Publish(
		p.exchange,
		RoutingKey(notification.Kind),
		false,
		false,
		amqp.Publishing{
			ContentType:   contentTypeJSON,
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			MessageId:     uuid.NewString(),
			CorrelationId: shell.CorrelationIDFrom(ctx),
			Timestamp:     notification.OccurredAt,
			Headers: amqp.Table{
				"member_id":    notification.MemberID,
				"library_id":   notification.LibraryID,
				"reference_id": notification.ReferenceID,
			},
		},
	)
	if err != nil {
		return errors.Join(ErrPublishFailed, err)
	}

	return nil
}

// Close closes the channel and, if the publisher dialed it, the connection.
func (p *AMQPPublisher) Close() error {
	err := p.channel.Close()

	if p.connection != nil {
		err = errors.Join(err, p.connection.Close())
	}

	return err
}

// RoutingKey returns the routing key of a notification kind.
func RoutingKey(kind core.NotificationKind) string {
	return routingKeyPrefix + string(kind)
}

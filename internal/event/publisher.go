package event

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/streadway/amqp"
)

// Publisher emits domain events (achievement unlocks, completions, sync
// outcomes) on a topic exchange. When RabbitMQ is not configured it runs
// disabled and Publish becomes a no-op.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
}

func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	if amqpURL == "" {
		log.Println("event: RabbitMQ not configured, events will not be published")
		return &Publisher{exchange: exchange}, nil
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("event: connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("event: open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("event: declare exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange, enabled: true}, nil
}

// Publish sends one event, using the event type as the routing key.
func (p *Publisher) Publish(eventType string, payload interface{}) error {
	if !p.enabled {
		return nil
	}
	event := map[string]interface{}{
		"type":    eventType,
		"payload": payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

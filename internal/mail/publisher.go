package mail

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// OutboundQueue is the RabbitMQ queue all transactional email flows
// through.  The consumer in internal/queue drains it.
const OutboundQueue = "email.outbound"

// Publisher implements Sender by publishing persistent messages to the
// outbound email queue.  The function attempts to be robust and to never
// panic; any error is logged and returned so the caller can choose to
// ignore it.  A bounded timeout covers the whole publish so a hung broker
// counts as a delivery failure instead of stalling the request.
type Publisher struct {
	url     string
	timeout time.Duration
}

// NewPublisher returns a Publisher for the given AMQP URL with the given
// publish timeout.
func NewPublisher(url string, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Publisher{url: url, timeout: timeout}
}

// Send publishes msg to the email.outbound queue.  Messages are marked
// persistent so they survive broker restarts.
func (p *Publisher) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		OutboundQueue, // name
		true,          // durable
		false,         // autoDelete
		false,         // exclusive
		false,         // noWait
		nil,           // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("rabbitmq: marshal message failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		MessageId:    msg.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",            // default exchange
		OutboundQueue, // routing key = queue name
		false,         // mandatory
		false,         // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}

// Package queue contains the background consumer that listens to the
// report.created queue and sends the sighting notification email for each
// message.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/lost-pet-registry/internal/notify"
)

// ReportQueueName is the durable queue carrying ReportCreatedEvent messages.
const ReportQueueName = "report.created"

// StartReportConsumer connects to RabbitMQ, declares the report.created
// queue (durable), and starts consuming messages. Each message results in
// one owner notification email. The function runs a reconnect loop with
// exponential backoff and keeps running indefinitely; send failures are
// logged and the message is rejected without requeue so a poisoned event
// cannot loop forever.
func StartReportConsumer(amqpURL string, mailer notify.Mailer) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(amqpURL)
		if err != nil {
			log.Printf("report-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, mailer); err != nil {
			log.Printf("report-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, mailer notify.Mailer) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		log.Printf("report-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(ReportQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(ReportQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, mailer); err != nil {
			log.Printf("report-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, mailer notify.Mailer) error {
	var ev ReportCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	subject := notify.SightingSubject(ev.PetName)
	htmlBody := notify.SightingBody(ev.PetName, ev.ReporterName, ev.ReporterPhone, ev.Location, ev.Details)
	if err := mailer.Send(ctx, ev.OwnerEmail, subject, htmlBody); err != nil {
		return fmt.Errorf("send report %d: %w", ev.ReportID, err)
	}
	return nil
}

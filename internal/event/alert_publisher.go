package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AlertPublisher publishes disease alert events to RabbitMQ.
type AlertPublisher struct {
	conn *RabbitMQConnection
}

func NewAlertPublisher(conn *RabbitMQConnection) *AlertPublisher {
	return &AlertPublisher{conn: conn}
}

// PublishDiseaseAlert pushes one alert onto the durable queue. Callers treat
// failures as best effort: an undelivered alert must never fail the
// diagnosis that produced it.
func (p *AlertPublisher) PublishDiseaseAlert(ctx context.Context, alert DiseaseAlertEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}

	_, err := p.conn.Channel.QueueDeclare(
		DiseaseAlertQueue, // queue name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal disease alert: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                // exchange
		DiseaseAlertQueue, // routing key (queue name)
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish disease alert: %w", err)
	}

	slog.Info("disease alert published",
		"disease", alert.DiseaseName,
		"severity", alert.Severity,
		"user_id", alert.UserID)
	return nil
}

// Package messaging publishes lifecycle events into RabbitMQ. Консьюмер
// (внешний notification-сервис) рассылает по ним email-уведомления, поэтому
// сами события содержат только идентификаторы и денормализованный заголовок.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventType описывает тип события жизненного цикла документа.
type EventType string

const (
	EventPublished   EventType = "sequence.published"
	EventUnpublished EventType = "sequence.unpublished"
	EventSubmitted   EventType = "sequence.submitted"
	EventUnsubmitted EventType = "sequence.unsubmitted"
	EventDeleted     EventType = "sequence.deleted"
)

// SequenceEventPayload - тело события в очереди.
type SequenceEventPayload struct {
	EventType  EventType `json:"event_type"`
	SequenceID uuid.UUID `json:"sequence_id"`
	UserID     uuid.UUID `json:"user_id"`
	Title      string    `json:"title,omitempty"`
	ChannelID  string    `json:"channel_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SequenceEventPublisher defines the interface for publishing lifecycle events.
type SequenceEventPublisher interface {
	PublishSequenceEvent(ctx context.Context, payload SequenceEventPayload) error
}

// rabbitMQPublisher implements SequenceEventPublisher for RabbitMQ.
type rabbitMQPublisher struct {
	channel   *amqp.Channel
	queueName string
}

// NewRabbitMQEventPublisher creates a new SequenceEventPublisher.
// Очередь объявляется здесь, чтобы порядок запуска сервисов был не важен.
func NewRabbitMQEventPublisher(conn *amqp.Connection, queueName string) (SequenceEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("event publisher: не удалось открыть канал: %w", err)
	}
	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("event publisher: не удалось объявить очередь '%s': %w", queueName, err)
	}
	return &rabbitMQPublisher{channel: ch, queueName: queueName}, nil
}

// PublishSequenceEvent publishes a lifecycle event.
func (p *rabbitMQPublisher) PublishSequenceEvent(ctx context.Context, payload SequenceEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации события %s для документа %s: %w", payload.EventType, payload.SequenceID, err)
	}
	return p.publishMessage(ctx, body)
}

// publishMessage is a helper method for publishing a message.
func (p *rabbitMQPublisher) publishMessage(ctx context.Context, body []byte) error {
	if p.channel == nil {
		return errors.New("канал RabbitMQ не инициализирован")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var err error
	// Попытка публикации с retry до 3 раз
	for attempt := 1; attempt <= 3; attempt++ {
		err = p.channel.PublishWithContext(ctx,
			"",          // exchange (используем default)
			p.queueName, // routing key (имя очереди)
			false,       // mandatory
			false,       // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
				Timestamp:    time.Now(),
				AppId:        "sequence-server",
			},
		)
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("ошибка публикации в очередь %s после retries: %w", p.queueName, err)
	}
	return nil
}

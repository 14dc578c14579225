// Package queue connects task mutations to the calendar mirror through
// RabbitMQ. Publishing is best-effort: the task mutation has already
// committed by the time an event goes out, and a broker failure is only
// logged.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
)

const taskDueQueue = "task.due_set"

var _ model.EventPublisher = (*Publisher)(nil)

// Publisher publishes task events. Each publish opens a short-lived
// connection; the event volume is one per due-date mutation.
type Publisher struct {
	url    string
	logger *logger.Logger
}

func NewPublisher(url string, logger *logger.Logger) *Publisher {
	return &Publisher{url: url, logger: logger}
}

// PublishTaskDue enqueues a durable task.due_set message.
func (p *Publisher) PublishTaskDue(ctx context.Context, event model.TaskDueEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("failed to dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if _, err := declareTaskDueQueue(ch); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = ch.PublishWithContext(ctx, "", taskDueQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("task due event published", "task_id", event.TaskID)
	return nil
}

// declareTaskDueQueue declares the durable queue; idempotent.
func declareTaskDueQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(taskDueQueue, true, false, false, false, nil)
}

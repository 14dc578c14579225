package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/model"
)

// Consumer drains task.due_set and mirrors each event into the calendar.
// Mirroring failures are logged and the message is dropped; the queue
// never backs up onto the request path.
type Consumer struct {
	url      string
	calendar model.Calendar
	logger   *logger.Logger
}

func NewConsumer(url string, calendar model.Calendar, logger *logger.Logger) *Consumer {
	return &Consumer{url: url, calendar: calendar, logger: logger}
}

// Run consumes until ctx is cancelled, reconnecting with backoff on
// broker failures.
func (c *Consumer) Run(ctx context.Context) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		err := c.consume(ctx)
		if err != nil {
			c.logger.Error("consumer disconnected", "error", err)
		}
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := declareTaskDueQueue(ch); err != nil {
		return err
	}

	deliveries, err := ch.Consume(taskDueQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.logger.Info("calendar consumer started", "queue", taskDueQueue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var event model.TaskDueEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logger.Error("failed to decode task due event", "error", err)
		_ = d.Nack(false, false)
		return
	}

	if err := c.calendar.CreateEvent(ctx, event.Title, event.DueDate, event.Notes); err != nil {
		c.logger.Error("failed to mirror task into calendar",
			"task_id", event.TaskID,
			"error", err)
	}

	// Ack regardless of mirror outcome; the mirror is best-effort.
	_ = d.Ack(false)
}

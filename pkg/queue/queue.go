// Package queue distributes ranking jobs over RabbitMQ: a Publisher sends
// requests on the work queue, Workers answer on the result queue.
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lioia/pagerank-bench/pkg/job"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of *amqp.Channel used by publishers and workers
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Queue holds the broker connection and the two declared queues
type Queue struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Work    amqp.Queue
	Result  amqp.Queue
}

// Connect dials the broker and declares the work and result queues
func Connect(url, work, result string) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q := &Queue{Conn: conn, Channel: ch}
	if q.Work, err = DeclareQueue(work, ch); err != nil {
		q.Close()
		return nil, fmt.Errorf("declare %s: %w", work, err)
	}
	if q.Result, err = DeclareQueue(result, ch); err != nil {
		q.Close()
		return nil, fmt.Errorf("declare %s: %w", result, err)
	}
	// One unacknowledged job per worker
	if err = ch.Qos(1, 0, false); err != nil {
		q.Close()
		return nil, fmt.Errorf("set prefetch: %w", err)
	}
	return q, nil
}

func (q *Queue) Close() error {
	if q.Channel != nil {
		q.Channel.Close()
	}
	if q.Conn != nil {
		return q.Conn.Close()
	}
	return nil
}

func DeclareQueue(name string, ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func publish(ctx context.Context, ch Channel, queue, id string, body []byte) error {
	return ch.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode:  amqp.Persistent,
			ContentType:   job.ContentType,
			MessageId:     id,
			CorrelationId: id,
			Body:          body,
		})
}

func consume(ch Channel, queue string) (<-chan amqp.Delivery, error) {
	return ch.Consume(
		queue, // queue
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
}

// Nack returns the delivery to the queue
func nack(logger *slog.Logger, d amqp.Delivery, err error) {
	logger.Warn("job returned to the queue", "id", d.MessageId, "error", err)
	if err := d.Nack(false, true); err != nil {
		logger.Error("could not nack delivery", "id", d.MessageId, "error", err)
	}
}

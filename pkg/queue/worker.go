package queue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lioia/pagerank-bench/pkg/job"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrConsumerClosed = errors.New("delivery channel closed")

// Worker consumes ranking jobs from the work queue and publishes the
// responses on the result queue
type Worker struct {
	ch      Channel
	work    string
	result  string
	timeout time.Duration
	logger  *slog.Logger
	engine  []pagerank.Option
}

type WorkerOption func(*Worker)

func WithLogger(logger *slog.Logger) WorkerOption {
	return func(w *Worker) { w.logger = logger }
}

// WithEngineOptions are passed to every engine created by the worker
func WithEngineOptions(opts ...pagerank.Option) WorkerOption {
	return func(w *Worker) { w.engine = opts }
}

// WithPublishTimeout bounds the publication of a single response (default 5s)
func WithPublishTimeout(d time.Duration) WorkerOption {
	return func(w *Worker) { w.timeout = d }
}

func NewWorker(ch Channel, work, result string, opts ...WorkerOption) *Worker {
	w := &Worker{
		ch:      ch,
		work:    work,
		result:  result,
		timeout: 5 * time.Second,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Serve handles deliveries until ctx is done or the broker closes the
// consumer
func (w *Worker) Serve(ctx context.Context) error {
	msgs, err := consume(w.ch, w.work)
	if err != nil {
		return err
	}
	w.logger.Info("waiting for jobs", "queue", w.work)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return ErrConsumerClosed
			}
			w.handle(ctx, d)
		}
	}
}

// A malformed body is rejected, a failed computation is answered with the
// error and a failed publication puts the job back in the queue
func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	request, err := job.UnmarshalRequest(d.Body)
	if err != nil {
		w.logger.Warn("rejecting malformed job", "id", d.MessageId, "error", err)
		if err := d.Reject(false); err != nil {
			w.logger.Error("could not reject delivery", "id", d.MessageId, "error", err)
		}
		return
	}
	if request.ID == "" {
		request.ID = d.MessageId
	}

	start := time.Now()
	response, err := job.Execute(request, w.engine...)
	if err != nil {
		response = job.Response{ID: request.ID, Error: err.Error()}
		w.logger.Warn("job failed", "id", request.ID, "error", err)
	} else {
		w.logger.Info("job completed",
			"id", request.ID,
			"nodes", request.Nodes,
			"iterations", response.Iterations,
			"elapsed", time.Since(start),
		)
	}

	body, err := job.MarshalResponse(response)
	if err != nil {
		nack(w.logger, d, err)
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := publish(pubCtx, w.ch, w.result, request.ID, body); err != nil {
		nack(w.logger, d, err)
		return
	}
	if err := d.Ack(false); err != nil {
		w.logger.Error("could not ack delivery", "id", request.ID, "error", err)
	}
}

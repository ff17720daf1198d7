package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/lioia/pagerank-bench/pkg/job"
	"github.com/lioia/pagerank-bench/pkg/utils"
)

// Publisher sends ranking jobs and collects their responses
type Publisher struct {
	ch      Channel
	work    string
	result  string
	logger  *slog.Logger
	pending *utils.SafeMap[string, int64] // Job id -> publication time (unix ms)
}

func NewPublisher(ch Channel, work, result string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Publisher{
		ch:      ch,
		work:    work,
		result:  result,
		logger:  logger,
		pending: utils.NewSafeMap[string, int64](),
	}
}

// Pending is the number of published jobs without a response yet
func (p *Publisher) Pending() int { return p.pending.Len() }

// Publish sends r on the work queue and returns its id, generated when r
// has none
func (p *Publisher) Publish(ctx context.Context, r job.Request) (string, error) {
	if r.ID == "" {
		r.ID = utils.NewRunID()
	}
	body, err := job.MarshalRequest(r)
	if err != nil {
		return "", err
	}
	if err := publish(ctx, p.ch, p.work, r.ID, body); err != nil {
		return "", err
	}
	p.pending.Put(r.ID, time.Now().UnixMilli())
	p.logger.Debug("job published", "id", r.ID, "queue", p.work)
	return r.ID, nil
}

// Results streams the responses found on the result queue until ctx is
// done. Undecodable messages are dropped.
func (p *Publisher) Results(ctx context.Context) (<-chan job.Response, error) {
	msgs, err := consume(p.ch, p.result)
	if err != nil {
		return nil, err
	}
	out := make(chan job.Response)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					return
				}
				response, err := job.UnmarshalResponse(d.Body)
				if err != nil {
					p.logger.Warn("dropping malformed result", "id", d.MessageId, "error", err)
					d.Reject(false)
					continue
				}
				if response.ID == "" {
					response.ID = d.CorrelationId
				}
				if published, ok := p.pending.Pop(response.ID); ok {
					p.logger.Debug("result received", "id", response.ID,
						"round_trip", time.Since(time.UnixMilli(published)))
				}
				select {
				case out <- response:
					d.Ack(false)
				case <-ctx.Done():
					d.Nack(false, true)
					return
				}
			}
		}
	}()
	return out, nil
}

package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lioia/pagerank-bench/pkg/job"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChannel records publications and serves deliveries from a channel
type fakeChannel struct {
	mu         sync.Mutex
	published  map[string][]amqp.Publishing
	deliveries map[string]chan amqp.Delivery
	publishErr error
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		published:  map[string][]amqp.Publishing{},
		deliveries: map[string]chan amqp.Delivery{},
	}
}

func (c *fakeChannel) queue(name string) chan amqp.Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.deliveries[name]; !ok {
		c.deliveries[name] = make(chan amqp.Delivery, 16)
	}
	return c.deliveries[name]
}

func (c *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published[key] = append(c.published[key], msg)
	return nil
}

func (c *fakeChannel) Consume(queue, _ string, _, _, _, _ bool, _ amqp.Table) (<-chan amqp.Delivery, error) {
	return c.queue(queue), nil
}

func (c *fakeChannel) messages(queue string) []amqp.Publishing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]amqp.Publishing(nil), c.published[queue]...)
}

// fakeAcknowledger records how a delivery was settled
type fakeAcknowledger struct {
	mu      sync.Mutex
	acked   int
	nacked  int
	rejects int
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejects++
	a.requeue = requeue
	return nil
}

func delivery(t *testing.T, ack *fakeAcknowledger, r job.Request) amqp.Delivery {
	t.Helper()
	body, err := job.MarshalRequest(r)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, MessageId: "msg-1", Body: body}
}

func TestWorkerHandle(t *testing.T) {
	ch := newFakeChannel()
	w := NewWorker(ch, "work", "result")
	ack := &fakeAcknowledger{}

	w.handle(context.Background(), delivery(t, ack, job.Request{Nodes: 2, Edges: [][2]int{{0, 1}, {1, 0}}}))
	assert.Equal(t, 1, ack.acked)

	results := ch.messages("result")
	require.Len(t, results, 1)
	assert.Equal(t, job.ContentType, results[0].ContentType)
	assert.Equal(t, "msg-1", results[0].CorrelationId)
	response, err := job.UnmarshalResponse(results[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", response.ID)
	assert.True(t, response.Converged)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, response.Ranks, 1e-12)
}

func TestWorkerReportsFailedJobs(t *testing.T) {
	ch := newFakeChannel()
	w := NewWorker(ch, "work", "result")
	ack := &fakeAcknowledger{}

	w.handle(context.Background(), delivery(t, ack, job.Request{ID: "bad", Nodes: 1, Edges: [][2]int{{0, 3}}}))
	// Answered and acknowledged, never requeued
	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
	results := ch.messages("result")
	require.Len(t, results, 1)
	response, err := job.UnmarshalResponse(results[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "bad", response.ID)
	assert.Contains(t, response.Error, "invalid node")
}

func TestWorkerAnswersOversizedJobs(t *testing.T) {
	ch := newFakeChannel()
	w := NewWorker(ch, "work", "result")
	ack := &fakeAcknowledger{}

	w.handle(context.Background(), delivery(t, ack, job.Request{ID: "huge", Nodes: 3037000500, Backend: "matrix"}))
	assert.Equal(t, 1, ack.acked)
	assert.Zero(t, ack.nacked)
	results := ch.messages("result")
	require.Len(t, results, 1)
	response, err := job.UnmarshalResponse(results[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "huge", response.ID)
	assert.Contains(t, response.Error, "too large")
}

func TestWorkerRejectsMalformedJobs(t *testing.T) {
	ch := newFakeChannel()
	w := NewWorker(ch, "work", "result")
	ack := &fakeAcknowledger{}

	w.handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte{0xff, 0xff}})
	assert.Equal(t, 1, ack.rejects)
	assert.False(t, ack.requeue)
	assert.Empty(t, ch.messages("result"))
}

func TestWorkerRequeuesOnPublishFailure(t *testing.T) {
	ch := newFakeChannel()
	ch.publishErr = errors.New("connection closed")
	w := NewWorker(ch, "work", "result", WithPublishTimeout(time.Second))
	ack := &fakeAcknowledger{}

	w.handle(context.Background(), delivery(t, ack, job.Request{Nodes: 1}))
	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
	assert.Zero(t, ack.acked)
}

func TestWorkerServe(t *testing.T) {
	ch := newFakeChannel()
	w := NewWorker(ch, "work", "result")
	ack := &fakeAcknowledger{}
	ch.queue("work") <- delivery(t, ack, job.Request{Nodes: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- w.Serve(ctx) }()

	assert.Eventually(t, func() bool { return len(ch.messages("result")) == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(ch.queue("work"))
	assert.ErrorIs(t, w.Serve(context.Background()), ErrConsumerClosed)
}

func TestPublisher(t *testing.T) {
	ch := newFakeChannel()
	p := NewPublisher(ch, "work", "result", nil)

	id, err := p.Publish(context.Background(), job.Request{Nodes: 3})
	require.NoError(t, err)
	assert.Len(t, id, 12)
	work := ch.messages("work")
	require.Len(t, work, 1)
	assert.Equal(t, id, work[0].MessageId)
	assert.Equal(t, amqp.Persistent, work[0].DeliveryMode)
	request, err := job.UnmarshalRequest(work[0].Body)
	require.NoError(t, err)
	assert.Equal(t, id, request.ID)
	assert.Equal(t, 3, request.Nodes)

	id, err = p.Publish(context.Background(), job.Request{ID: "mine", Nodes: 1})
	require.NoError(t, err)
	assert.Equal(t, "mine", id)
	assert.Equal(t, 2, p.Pending())

	ch.publishErr = errors.New("channel closed")
	_, err = p.Publish(context.Background(), job.Request{Nodes: 1})
	assert.Error(t, err)
	assert.Equal(t, 2, p.Pending())
}

func TestPublisherResults(t *testing.T) {
	ch := newFakeChannel()
	p := NewPublisher(ch, "work", "result", nil)

	body, err := job.MarshalResponse(job.Response{Ranks: []float64{1}, Iterations: 1, Converged: true})
	require.NoError(t, err)
	good := &fakeAcknowledger{}
	bad := &fakeAcknowledger{}
	ch.queue("result") <- amqp.Delivery{Acknowledger: bad, Body: []byte{0xff, 0xff}}
	ch.queue("result") <- amqp.Delivery{Acknowledger: good, CorrelationId: "job-9", Body: body}

	// A response for a job published by this publisher settles it
	_, err = p.Publish(context.Background(), job.Request{ID: "job-9", Nodes: 1})
	require.NoError(t, err)
	require.Equal(t, 1, p.Pending())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results, err := p.Results(ctx)
	require.NoError(t, err)

	select {
	case r := <-results:
		assert.Equal(t, "job-9", r.ID)
		assert.Zero(t, p.Pending())
		assert.Equal(t, []float64{1.0}, r.Ranks)
	case <-time.After(time.Second):
		t.Fatal("no result received")
	}
	assert.Eventually(t, func() bool {
		good.mu.Lock()
		defer good.mu.Unlock()
		return good.acked == 1
	}, time.Second, 5*time.Millisecond)
	bad.mu.Lock()
	assert.Equal(t, 1, bad.rejects)
	bad.mu.Unlock()
}

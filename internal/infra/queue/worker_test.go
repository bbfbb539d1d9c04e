package queue

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type fakeAcknowledger struct {
	acked  bool
	nacked bool
	// requeue as passed to the last Nack
	requeued bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

type mockAnalyticsRepository struct {
	mock.Mock
}

func (m *mockAnalyticsRepository) InsertEvent(ctx context.Context, event *entity.AnalyticsEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockAnalyticsRepository) InsertDownload(ctx context.Context, record *entity.DownloadRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func delivery(ack *fakeAcknowledger, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, Body: []byte(body)}
}

func TestWorkerHandlePersistsAndAcks(t *testing.T) {
	repo := new(mockAnalyticsRepository)
	repo.On("InsertEvent", mock.Anything, mock.MatchedBy(func(event *entity.AnalyticsEvent) bool {
		return event.EventName == "alpha_form_submitted" && event.LeadID == "lead-1"
	})).Return(nil)

	w := NewWorker(nil, repo, zap.NewNop())
	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(ack, `{"event_name":"alpha_form_submitted","lead_id":"lead-1"}`))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	repo.AssertExpectations(t)
}

func TestWorkerHandleDeadLettersMalformedPayload(t *testing.T) {
	repo := new(mockAnalyticsRepository)

	w := NewWorker(nil, repo, zap.NewNop())
	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(ack, `{not json`))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
	repo.AssertNotCalled(t, "InsertEvent", mock.Anything, mock.Anything)
}

func TestWorkerHandleDeadLettersOnStoreFailure(t *testing.T) {
	repo := new(mockAnalyticsRepository)
	repo.On("InsertEvent", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	w := NewWorker(nil, repo, zap.NewNop())
	ack := &fakeAcknowledger{}
	w.handle(context.Background(), delivery(ack, `{"event_name":"lead_magnet_downloaded"}`))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeued)
	assert.False(t, ack.acked)
}

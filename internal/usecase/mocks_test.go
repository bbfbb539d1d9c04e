package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindUnclassified(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, limit, offset int) ([]*entity.Lead, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateClassification(ctx context.Context, id string, c entity.LeadClassification) error {
	args := m.Called(ctx, id, c)
	return args.Error(0)
}

type MockSequenceTaskRepository struct {
	mock.Mock
}

func (m *MockSequenceTaskRepository) Create(ctx context.Context, task *entity.SequenceTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockSequenceTaskRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.SequenceTask, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.SequenceTask), args.Error(1)
}

func (m *MockSequenceTaskRepository) ClaimPending(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	args := m.Called(ctx, id, sentAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockSequenceTaskRepository) MarkFailed(ctx context.Context, id, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockSequenceTaskRepository) CountByLead(ctx context.Context, leadID string) (int, error) {
	args := m.Called(ctx, leadID)
	return args.Int(0), args.Error(1)
}

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) InsertEvent(ctx context.Context, event *entity.AnalyticsEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) InsertDownload(ctx context.Context, record *entity.DownloadRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendSequenceEmail(to, name, sequenceType, downloadURL string) error {
	args := m.Called(to, name, sequenceType, downloadURL)
	return args.Error(0)
}

type MockAnalyticsPublisher struct {
	mock.Mock
}

func (m *MockAnalyticsPublisher) PublishEvent(ctx context.Context, event entity.AnalyticsEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

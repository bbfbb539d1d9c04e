package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func newScheduler(tasks *MockSequenceTaskRepository) *ScheduleSequenceUseCase {
	uc := NewScheduleSequenceUseCase(tasks)
	uc.Now = fixedNow
	return uc
}

func TestScheduleApplicationSequence(t *testing.T) {
	tasks := new(MockSequenceTaskRepository)
	var created []*entity.SequenceTask
	tasks.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.Get(1).(*entity.SequenceTask))
	}).Return(nil)

	err := newScheduler(tasks).Execute(context.Background(), "lead-1", SequenceKindApplication)

	assert.NoError(t, err)
	assert.Len(t, created, 4)

	base := fixedNow()
	expected := []struct {
		sequenceType string
		offset       time.Duration
	}{
		{entity.SequenceWelcome, 0},
		{entity.SequenceFollowUpDay1, 24 * time.Hour},
		{entity.SequenceFollowUpDay3, 72 * time.Hour},
		{entity.SequenceFollowUpDay7, 168 * time.Hour},
	}
	for i, want := range expected {
		assert.Equal(t, "lead-1", created[i].LeadID)
		assert.Equal(t, want.sequenceType, created[i].SequenceType)
		assert.Equal(t, entity.TaskStatusPending, created[i].Status)
		assert.Equal(t, base.Add(want.offset), created[i].ScheduledFor)
		assert.NotEmpty(t, created[i].ID)
	}
}

func TestScheduleLeadMagnetSequence(t *testing.T) {
	tasks := new(MockSequenceTaskRepository)
	var created []*entity.SequenceTask
	tasks.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.Get(1).(*entity.SequenceTask))
	}).Return(nil)

	err := newScheduler(tasks).Execute(context.Background(), "lead-2", SequenceKindLeadMagnet)

	assert.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Equal(t, entity.SequenceLeadMagnet, created[0].SequenceType)
	assert.Equal(t, fixedNow(), created[0].ScheduledFor)
	assert.Equal(t, entity.SequenceFollowUpDay3, created[1].SequenceType)
	assert.Equal(t, entity.SequenceFollowUpDay7, created[2].SequenceType)
}

func TestScheduleTwiceInsertsTwice(t *testing.T) {
	tasks := new(MockSequenceTaskRepository)
	tasks.On("Create", mock.Anything, mock.Anything).Return(nil)
	uc := newScheduler(tasks)

	assert.NoError(t, uc.Execute(context.Background(), "lead-1", SequenceKindApplication))
	assert.NoError(t, uc.Execute(context.Background(), "lead-1", SequenceKindApplication))

	// No dedup on purpose: a repeat submission doubles the task set.
	tasks.AssertNumberOfCalls(t, "Create", 8)
}

func TestScheduleUnknownKind(t *testing.T) {
	tasks := new(MockSequenceTaskRepository)

	err := newScheduler(tasks).Execute(context.Background(), "lead-1", "re_engagement")

	assert.True(t, IsDomainError(err))
	assert.Contains(t, err.Error(), "re_engagement")
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSchedulePersistenceFailureStopsEarly(t *testing.T) {
	tasks := new(MockSequenceTaskRepository)
	tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *entity.SequenceTask) bool {
		return task.SequenceType == entity.SequenceWelcome
	})).Return(nil)
	tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *entity.SequenceTask) bool {
		return task.SequenceType == entity.SequenceFollowUpDay1
	})).Return(errors.New("connection reset"))

	err := newScheduler(tasks).Execute(context.Background(), "lead-1", SequenceKindApplication)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "follow_up_day1")
	// day3 and day7 never attempted after the failure.
	tasks.AssertNumberOfCalls(t, "Create", 2)
}

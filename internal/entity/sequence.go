package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sequence email kinds. Closed set: the dispatcher's template table must
// cover every value here or the task fails at send time.
const (
	SequenceWelcome      = "welcome"
	SequenceLeadMagnet   = "lead_magnet"
	SequenceFollowUpDay1 = "follow_up_day1"
	SequenceFollowUpDay3 = "follow_up_day3"
	SequenceFollowUpDay7 = "follow_up_day7"
)

// Task status lifecycle: pending -> sent | failed. Both end states are
// terminal; a failed task is only resent through operator action.
const (
	TaskStatusPending = "pending"
	TaskStatusSent    = "sent"
	TaskStatusFailed  = "failed"
)

// SequenceTask is one scheduled email send for a lead. LeadID is a
// reference, not ownership: the lead row may be deleted out from under a
// pending task, in which case dispatch marks the task failed.
type SequenceTask struct {
	ID           string     `json:"id"`
	LeadID       string     `json:"lead_id"`
	SequenceType string     `json:"sequence_type"`
	Status       string     `json:"status"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func NewSequenceTask(leadID, sequenceType string, scheduledFor time.Time) *SequenceTask {
	return &SequenceTask{
		ID:           uuid.New().String(),
		LeadID:       leadID,
		SequenceType: sequenceType,
		Status:       TaskStatusPending,
		ScheduledFor: scheduledFor,
		CreatedAt:    time.Now().UTC(),
	}
}

type SequenceTaskRepositoryInterface interface {
	Create(ctx context.Context, task *SequenceTask) error

	// FindDue returns up to limit pending tasks with scheduled_for <= now,
	// ordered by due time so backlogs drain oldest first.
	FindDue(ctx context.Context, now time.Time, limit int) ([]*SequenceTask, error)

	// ClaimPending transitions the task from pending to sent and stamps
	// sent_at, but only if it is still pending. Returns false when another
	// dispatcher invocation already claimed it. This conditional update is
	// what keeps concurrent dispatch runs from double-sending.
	ClaimPending(ctx context.Context, id string, sentAt time.Time) (bool, error)

	// MarkFailed records a terminal failure with a reason.
	MarkFailed(ctx context.Context, id, reason string) error

	CountByLead(ctx context.Context, leadID string) (int, error)
}

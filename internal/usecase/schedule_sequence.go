package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

// Sequence kinds selectable by intake.
const (
	SequenceKindApplication = "application"
	SequenceKindLeadMagnet  = "lead_magnet"
)

type scheduleEntry struct {
	sequenceType string
	delayMinutes int
}

// Fixed nurture catalogs. Offsets are minutes from the moment of
// scheduling, not from lead creation.
var sequenceSchedules = map[string][]scheduleEntry{
	SequenceKindApplication: {
		{entity.SequenceWelcome, 0},
		{entity.SequenceFollowUpDay1, 24 * 60},
		{entity.SequenceFollowUpDay3, 72 * 60},
		{entity.SequenceFollowUpDay7, 168 * 60},
	},
	SequenceKindLeadMagnet: {
		{entity.SequenceLeadMagnet, 0},
		{entity.SequenceFollowUpDay3, 72 * 60},
		{entity.SequenceFollowUpDay7, 168 * 60},
	},
}

// ScheduleSequenceUseCase persists the future-dated email tasks for a new
// lead. It is deliberately not idempotent: calling it twice for the same
// lead and kind inserts the full set of tasks twice. Callers own that
// contract.
type ScheduleSequenceUseCase struct {
	Tasks entity.SequenceTaskRepositoryInterface
	Now   func() time.Time
}

func NewScheduleSequenceUseCase(tasks entity.SequenceTaskRepositoryInterface) *ScheduleSequenceUseCase {
	return &ScheduleSequenceUseCase{Tasks: tasks, Now: time.Now}
}

// Execute inserts one pending task per catalog entry. The first
// persistence failure propagates; already-inserted tasks are not rolled
// back.
func (uc *ScheduleSequenceUseCase) Execute(ctx context.Context, leadID, kind string) error {
	entries, ok := sequenceSchedules[kind]
	if !ok {
		return &DomainError{
			Code:    "UNKNOWN_SEQUENCE_KIND",
			Message: fmt.Sprintf("unknown sequence kind: %s", kind),
		}
	}

	now := uc.Now().UTC()
	for _, e := range entries {
		task := entity.NewSequenceTask(leadID, e.sequenceType, now.Add(time.Duration(e.delayMinutes)*time.Minute))
		if err := uc.Tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("scheduling %s for lead %s: %w", e.sequenceType, leadID, err)
		}
	}
	return nil
}

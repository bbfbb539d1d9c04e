package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

// DefaultDispatchBatchSize bounds the work done by one dispatcher
// invocation so the external trigger (a cron hitting the endpoint every few
// minutes) never times out on a backlog.
const DefaultDispatchBatchSize = 50

type DispatchOutput struct {
	Sent   int      `json:"sent"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}

// DispatchSequencesUseCase drains due pending sequence tasks. Each task is
// claimed with a conditional pending->sent transition before the provider
// send happens, so two invocations racing on the same task produce at most
// one send: the loser of the claim simply skips the task. A failure after a
// won claim downgrades the task to failed with the reason recorded.
//
// Failed tasks are terminal. Nothing here retries them; that is an operator
// decision.
type DispatchSequencesUseCase struct {
	Tasks  entity.SequenceTaskRepositoryInterface
	Leads  entity.LeadRepositoryInterface
	Email  EmailSender
	Logger *zap.Logger

	BatchSize int
	// DownloadURL is threaded through for lead_magnet tasks, which carry a
	// download button in their body.
	DownloadURL string
}

func NewDispatchSequencesUseCase(
	tasks entity.SequenceTaskRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	email EmailSender,
	logger *zap.Logger,
	downloadURL string,
) *DispatchSequencesUseCase {
	return &DispatchSequencesUseCase{
		Tasks:       tasks,
		Leads:       leads,
		Email:       email,
		Logger:      logger,
		BatchSize:   DefaultDispatchBatchSize,
		DownloadURL: downloadURL,
	}
}

// Execute processes one bounded batch of tasks due at now. Task failures
// are isolated: they are counted and described in the output, and the batch
// keeps going. Only the initial due-task query can fail the run as a whole.
func (uc *DispatchSequencesUseCase) Execute(ctx context.Context, now time.Time) (*DispatchOutput, error) {
	due, err := uc.Tasks.FindDue(ctx, now, uc.BatchSize)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to fetch due sequence tasks: " + err.Error(),
		}
	}

	output := &DispatchOutput{Errors: []string{}}
	for _, task := range due {
		uc.dispatchOne(ctx, task, now, output)
	}

	if output.Sent > 0 || output.Failed > 0 {
		uc.Logger.Info("sequence dispatch finished",
			zap.Int("due", len(due)),
			zap.Int("sent", output.Sent),
			zap.Int("failed", output.Failed))
	}
	return output, nil
}

func (uc *DispatchSequencesUseCase) dispatchOne(ctx context.Context, task *entity.SequenceTask, now time.Time, output *DispatchOutput) {
	lead, err := uc.Leads.FindByID(ctx, task.LeadID)
	if err != nil || lead == nil {
		uc.failTask(ctx, task, "lead not found", output)
		return
	}

	claimed, err := uc.Tasks.ClaimPending(ctx, task.ID, now)
	if err != nil {
		output.Failed++
		output.Errors = append(output.Errors, fmt.Sprintf("task %s: claim failed: %v", task.ID, err))
		return
	}
	if !claimed {
		// A concurrent invocation already owns this task.
		return
	}

	if err := uc.Email.SendSequenceEmail(lead.Email, lead.Name, task.SequenceType, uc.DownloadURL); err != nil {
		uc.failTask(ctx, task, err.Error(), output)
		return
	}

	output.Sent++
}

func (uc *DispatchSequencesUseCase) failTask(ctx context.Context, task *entity.SequenceTask, reason string, output *DispatchOutput) {
	output.Failed++
	output.Errors = append(output.Errors, fmt.Sprintf("task %s (%s): %s", task.ID, task.SequenceType, reason))

	if err := uc.Tasks.MarkFailed(ctx, task.ID, reason); err != nil {
		uc.Logger.Error("failed to mark sequence task as failed",
			zap.String("task_id", task.ID),
			zap.Error(err))
	}
}

package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type SubmitLeadInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Market string `json:"market"`
	Role   string `json:"role,omitempty"`
	Pain   string `json:"pain,omitempty"`
}

type SubmitLeadOutput struct {
	LeadID string
	// Effects reports each best-effort side effect for observability. The
	// HTTP layer does not expose these; they are logged.
	Effects []EffectResult
}

// SubmitLeadUseCase handles the full application form. Persisting the lead
// is the only must-succeed step; the welcome email, the nurture schedule
// and the analytics event are each allowed to fail independently without
// touching the response.
type SubmitLeadUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Scheduler *ScheduleSequenceUseCase
	Email     EmailSender
	Analytics AnalyticsPublisher
	Logger    *zap.Logger
}

func NewSubmitLeadUseCase(
	leads entity.LeadRepositoryInterface,
	scheduler *ScheduleSequenceUseCase,
	email EmailSender,
	analytics AnalyticsPublisher,
	logger *zap.Logger,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Leads:     leads,
		Scheduler: scheduler,
		Email:     email,
		Analytics: analytics,
		Logger:    logger,
	}
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, []ValidationError, error) {
	if validationErrors := ValidateSubmitLeadInput(input); len(validationErrors) > 0 {
		return nil, validationErrors, nil
	}

	lead := entity.NewLead(input.Name, input.Email, input.Market, input.Role, input.Pain, entity.LeadSourceAlphaForm)
	if err := uc.Leads.Create(ctx, lead); err != nil {
		uc.Logger.Error("failed to persist lead", zap.Error(err))
		return nil, nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to submit lead",
		}
	}

	output := &SubmitLeadOutput{LeadID: lead.ID}
	output.Effects = uc.runSideEffects(ctx, lead)
	for _, effect := range output.Effects {
		if effect.Err != nil {
			uc.Logger.Warn("lead side effect failed",
				zap.String("lead_id", lead.ID),
				zap.String("effect", effect.Name),
				zap.Error(effect.Err))
		}
	}

	return output, nil, nil
}

func (uc *SubmitLeadUseCase) runSideEffects(ctx context.Context, lead *entity.Lead) []EffectResult {
	effects := []EffectResult{
		{Name: "welcome_email", Err: uc.Email.SendSequenceEmail(lead.Email, lead.Name, entity.SequenceWelcome, "")},
		{Name: "schedule_sequence", Err: uc.Scheduler.Execute(ctx, lead.ID, SequenceKindApplication)},
	}

	event := entity.AnalyticsEvent{
		EventName: "alpha_form_submitted",
		LeadID:    lead.ID,
		Properties: map[string]string{
			"market": lead.Market,
			"source": lead.Source,
		},
		CreatedAt: lead.CreatedAt,
	}
	effects = append(effects, EffectResult{Name: "analytics_event", Err: uc.Analytics.PublishEvent(ctx, event)})

	return effects
}

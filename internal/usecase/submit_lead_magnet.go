package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type SubmitLeadMagnetInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SubmitLeadMagnetOutput struct {
	LeadID      string
	DownloadURL string
	Effects     []EffectResult
}

// SubmitLeadMagnetUseCase handles the playbook download form. Unlike the
// application path it deduplicates by email: a returning visitor keeps
// their existing lead row and only gets a fresh download plus the magnet
// sequence.
type SubmitLeadMagnetUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Records   entity.AnalyticsRepositoryInterface
	Scheduler *ScheduleSequenceUseCase
	Email     EmailSender
	Analytics AnalyticsPublisher
	Logger    *zap.Logger

	// DownloadURL is the public location of the lead magnet asset.
	DownloadURL string
	MagnetType  string
}

func NewSubmitLeadMagnetUseCase(
	leads entity.LeadRepositoryInterface,
	records entity.AnalyticsRepositoryInterface,
	scheduler *ScheduleSequenceUseCase,
	email EmailSender,
	analytics AnalyticsPublisher,
	logger *zap.Logger,
	downloadURL string,
) *SubmitLeadMagnetUseCase {
	return &SubmitLeadMagnetUseCase{
		Leads:       leads,
		Records:     records,
		Scheduler:   scheduler,
		Email:       email,
		Analytics:   analytics,
		Logger:      logger,
		DownloadURL: downloadURL,
		MagnetType:  "entity_playbook",
	}
}

func (uc *SubmitLeadMagnetUseCase) Execute(ctx context.Context, input SubmitLeadMagnetInput) (*SubmitLeadMagnetOutput, []ValidationError, error) {
	if validationErrors := ValidateLeadMagnetInput(input); len(validationErrors) > 0 {
		return nil, validationErrors, nil
	}

	// An existing lead with this exact email is treated as the same person.
	existing, err := uc.Leads.FindByEmail(ctx, input.Email)
	if err != nil {
		uc.Logger.Error("failed to look up lead by email", zap.Error(err))
		return nil, nil, &TechnicalError{
			Code:    "DATABASE_ERROR",
			Message: "failed to process request",
		}
	}

	var leadID string
	if existing != nil {
		leadID = existing.ID
	} else {
		lead := entity.NewLead(input.Name, input.Email, "", "", "", entity.LeadSourceLeadMagnet)
		if err := uc.Leads.Create(ctx, lead); err != nil {
			uc.Logger.Error("failed to persist lead", zap.Error(err))
			return nil, nil, &TechnicalError{
				Code:    "DATABASE_ERROR",
				Message: "failed to process request",
			}
		}
		leadID = lead.ID
	}

	output := &SubmitLeadMagnetOutput{LeadID: leadID, DownloadURL: uc.DownloadURL}
	output.Effects = uc.runSideEffects(ctx, leadID, input)
	for _, effect := range output.Effects {
		if effect.Err != nil {
			uc.Logger.Warn("lead magnet side effect failed",
				zap.String("lead_id", leadID),
				zap.String("effect", effect.Name),
				zap.Error(effect.Err))
		}
	}

	return output, nil, nil
}

func (uc *SubmitLeadMagnetUseCase) runSideEffects(ctx context.Context, leadID string, input SubmitLeadMagnetInput) []EffectResult {
	download := &entity.DownloadRecord{
		LeadID:       leadID,
		Email:        input.Email,
		Name:         input.Name,
		MagnetType:   uc.MagnetType,
		DownloadedAt: time.Now().UTC(),
	}

	effects := []EffectResult{
		{Name: "download_record", Err: uc.Records.InsertDownload(ctx, download)},
		{Name: "lead_magnet_email", Err: uc.Email.SendSequenceEmail(input.Email, input.Name, entity.SequenceLeadMagnet, uc.DownloadURL)},
		{Name: "schedule_sequence", Err: uc.Scheduler.Execute(ctx, leadID, SequenceKindLeadMagnet)},
	}

	event := entity.AnalyticsEvent{
		EventName: "lead_magnet_downloaded",
		LeadID:    leadID,
		Properties: map[string]string{
			"magnet_type": uc.MagnetType,
			"email":       input.Email,
		},
		CreatedAt: time.Now().UTC(),
	}
	effects = append(effects, EffectResult{Name: "analytics_event", Err: uc.Analytics.PublishEvent(ctx, event)})

	return effects
}

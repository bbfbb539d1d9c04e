package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/patrickboxfordpartners/gravitasindex/internal/classifier"
	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

// ClassifiedLead is one entry in a batch classification result.
type ClassifiedLead struct {
	LeadID         string `json:"lead_id"`
	Classification string `json:"classification"`
}

// ClassifyLeadUseCase runs the rule-based classifier over leads and
// persists the verdicts. Classification always overwrites whatever the
// previous run stored.
type ClassifyLeadUseCase struct {
	Leads  entity.LeadRepositoryInterface
	Logger *zap.Logger
}

func NewClassifyLeadUseCase(leads entity.LeadRepositoryInterface, logger *zap.Logger) *ClassifyLeadUseCase {
	return &ClassifyLeadUseCase{Leads: leads, Logger: logger}
}

// ClassifyOne classifies a single lead and persists the result.
func (uc *ClassifyLeadUseCase) ClassifyOne(ctx context.Context, leadID string) (*classifier.Result, error) {
	lead, err := uc.Leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to fetch lead"}
	}
	if lead == nil {
		return nil, &DomainError{Code: "LEAD_NOT_FOUND", Message: "lead not found"}
	}

	result := classifier.Classify(classifier.Input{
		Name:   lead.Name,
		Email:  lead.Email,
		Market: lead.Market,
		Role:   lead.Role,
		Pain:   lead.Pain,
	})

	if err := uc.Leads.UpdateClassification(ctx, lead.ID, entity.LeadClassification{
		Classification:    result.Classification,
		RecommendedAction: result.RecommendedAction,
		Signals:           result.Signals,
		Rationale:         result.Rationale,
	}); err != nil {
		uc.Logger.Error("failed to persist classification",
			zap.String("lead_id", lead.ID),
			zap.Error(err))
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to persist classification"}
	}

	return &result, nil
}

// ClassifyAll classifies every lead still lacking a classification. Each
// lead is processed independently; a persistence failure is logged and the
// lead is simply omitted from the results.
func (uc *ClassifyLeadUseCase) ClassifyAll(ctx context.Context) ([]ClassifiedLead, error) {
	leads, err := uc.Leads.FindUnclassified(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to fetch unclassified leads"}
	}

	results := make([]ClassifiedLead, 0, len(leads))
	for _, lead := range leads {
		result := classifier.Classify(classifier.Input{
			Name:   lead.Name,
			Email:  lead.Email,
			Market: lead.Market,
			Role:   lead.Role,
			Pain:   lead.Pain,
		})

		if err := uc.Leads.UpdateClassification(ctx, lead.ID, entity.LeadClassification{
			Classification:    result.Classification,
			RecommendedAction: result.RecommendedAction,
			Signals:           result.Signals,
			Rationale:         result.Rationale,
		}); err != nil {
			uc.Logger.Error("failed to persist classification in batch",
				zap.String("lead_id", lead.ID),
				zap.Error(err))
			continue
		}

		results = append(results, ClassifiedLead{LeadID: lead.ID, Classification: result.Classification})
	}

	return results, nil
}

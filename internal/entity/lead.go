package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead status lifecycle. Transitions are free-form: operators and the
// payment webhook may move a lead to any status at any time. The nurture
// pipeline never advances status on its own.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)

// Acquisition channels.
const (
	LeadSourceAlphaForm  = "alpha_form"
	LeadSourceLeadMagnet = "lead_magnet"
)

// Classification categories assigned by the inquiry classifier.
const (
	ClassificationOpportunity = "opportunity"
	ClassificationNoise       = "noise"
	ClassificationRisk        = "risk"
	ClassificationReputation  = "reputation"
)

// Signals is the structured evidence collected while classifying a lead.
// Persisted as jsonb alongside the classification itself.
type Signals struct {
	TimelineClarity     string   `json:"timeline_clarity"`
	LocationSpecificity string   `json:"location_specificity"`
	PropertyClarity     string   `json:"property_clarity"`
	ReadinessIndicators []string `json:"readiness_indicators"`
	RiskTriggers        []string `json:"risk_triggers"`
}

type Lead struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Market string `json:"market"` // "Unknown" when the entry path does not collect it
	Role   string `json:"role,omitempty"`
	Pain   string `json:"pain,omitempty"`
	Source string `json:"source"`
	Status string `json:"status"`

	// Classifier output. Nil until classified; overwritten on each run.
	Classification    *string    `json:"classification"`
	RecommendedAction *string    `json:"recommended_action,omitempty"`
	Signals           *Signals   `json:"signals,omitempty"`
	Rationale         *string    `json:"rationale,omitempty"`
	ClassifiedAt      *time.Time `json:"classified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLead builds a lead in the initial state for the given entry path.
func NewLead(name, email, market, role, pain, source string) *Lead {
	if market == "" {
		market = "Unknown"
	}
	now := time.Now().UTC()
	return &Lead{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Market:    market,
		Role:      role,
		Pain:      pain,
		Source:    source,
		Status:    LeadStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// LeadClassification is the persistable result of one classifier run.
type LeadClassification struct {
	Classification    string  `json:"classification"`
	RecommendedAction string  `json:"recommended_action"`
	Signals           Signals `json:"signals"`
	Rationale         string  `json:"rationale"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindByEmail(ctx context.Context, email string) (*Lead, error)
	FindUnclassified(ctx context.Context) ([]*Lead, error)
	List(ctx context.Context, limit, offset int) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateClassification(ctx context.Context, id string, c LeadClassification) error
}

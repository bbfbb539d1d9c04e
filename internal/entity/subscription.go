package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subscription mirrors what the payment provider tells us via webhook.
// This service only records it and flips the owning lead's status; billing
// itself lives entirely on the provider side.
type Subscription struct {
	ID                     string    `json:"id"`
	LeadID                 string    `json:"lead_id"`
	ProviderCustomerID     string    `json:"provider_customer_id"`
	ProviderSubscriptionID string    `json:"provider_subscription_id"`
	PlanType               string    `json:"plan_type"`
	Status                 string    `json:"status"`
	CurrentPeriodStart     time.Time `json:"current_period_start"`
	CurrentPeriodEnd       time.Time `json:"current_period_end"`
	MonthlyAmountCents     int64     `json:"monthly_amount_cents"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func NewSubscription(leadID, providerCustomerID, providerSubscriptionID, planType, status string, periodStart, periodEnd time.Time, amountCents int64) *Subscription {
	now := time.Now().UTC()
	return &Subscription{
		ID:                     uuid.New().String(),
		LeadID:                 leadID,
		ProviderCustomerID:     providerCustomerID,
		ProviderSubscriptionID: providerSubscriptionID,
		PlanType:               planType,
		Status:                 status,
		CurrentPeriodStart:     periodStart,
		CurrentPeriodEnd:       periodEnd,
		MonthlyAmountCents:     amountCents,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

type SubscriptionRepositoryInterface interface {
	Create(ctx context.Context, sub *Subscription) error
	UpdateStatusByProviderSubscriptionID(ctx context.Context, providerSubID, status string) error
	FindLeadIDByProviderSubscriptionID(ctx context.Context, providerSubID string) (string, error)
}

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type SubscriptionRepository struct {
	DB *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, lead_id, provider_customer_id, provider_subscription_id,
			plan_type, status, current_period_start, current_period_end,
			monthly_amount_cents, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		sub.ID,
		sub.LeadID,
		sub.ProviderCustomerID,
		sub.ProviderSubscriptionID,
		sub.PlanType,
		sub.Status,
		sub.CurrentPeriodStart,
		sub.CurrentPeriodEnd,
		sub.MonthlyAmountCents,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) UpdateStatusByProviderSubscriptionID(ctx context.Context, providerSubID, status string) error {
	query := `UPDATE subscriptions SET status = $1, updated_at = NOW() WHERE provider_subscription_id = $2`
	if _, err := r.DB.ExecContext(ctx, query, status, providerSubID); err != nil {
		return fmt.Errorf("updating subscription status: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) FindLeadIDByProviderSubscriptionID(ctx context.Context, providerSubID string) (string, error) {
	query := `SELECT lead_id FROM subscriptions WHERE provider_subscription_id = $1 ORDER BY created_at DESC LIMIT 1`

	var leadID string
	err := r.DB.QueryRowContext(ctx, query, providerSubID).Scan(&leadID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("finding subscription lead: %w", err)
	}
	return leadID, nil
}

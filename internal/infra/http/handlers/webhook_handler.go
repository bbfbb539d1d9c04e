package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
	"github.com/patrickboxfordpartners/gravitasindex/internal/infra/http/middleware"
)

// WebhookHandler ingests payment provider events at POST /webhook/payments.
// It only records what the provider says and flips the owning lead's
// status; it never drives billing. Handled events always answer 200 so the
// provider stops retrying; signature verification happens at the edge
// proxy.
type WebhookHandler struct {
	Leads         entity.LeadRepositoryInterface
	Subscriptions entity.SubscriptionRepositoryInterface
	Logger        *zap.Logger
}

func NewWebhookHandler(leads entity.LeadRepositoryInterface, subscriptions entity.SubscriptionRepositoryInterface, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Leads: leads, Subscriptions: subscriptions, Logger: logger}
}

type webhookEvent struct {
	Type string `json:"type"`
	Data struct {
		LeadID             string `json:"lead_id"`
		CustomerID         string `json:"customer_id"`
		SubscriptionID     string `json:"subscription_id"`
		PlanType           string `json:"plan_type"`
		Status             string `json:"status"`
		CurrentPeriodStart int64  `json:"current_period_start"`
		CurrentPeriodEnd   int64  `json:"current_period_end"`
		MonthlyAmountCents int64  `json:"monthly_amount_cents"`
	} `json:"data"`
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad JSON", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	switch event.Type {
	case "checkout.session.completed":
		if event.Data.LeadID == "" {
			h.Logger.Warn("checkout event without lead_id", zap.String("subscription_id", event.Data.SubscriptionID))
			break
		}

		sub := entity.NewSubscription(
			event.Data.LeadID,
			event.Data.CustomerID,
			event.Data.SubscriptionID,
			event.Data.PlanType,
			event.Data.Status,
			time.Unix(event.Data.CurrentPeriodStart, 0).UTC(),
			time.Unix(event.Data.CurrentPeriodEnd, 0).UTC(),
			event.Data.MonthlyAmountCents,
		)
		if err := h.Subscriptions.Create(ctx, sub); err != nil {
			h.Logger.Error("failed to record subscription", zap.Error(err))
			break
		}

		if err := h.Leads.UpdateStatus(ctx, event.Data.LeadID, entity.LeadStatusConverted); err != nil {
			h.Logger.Error("failed to mark lead converted", zap.String("lead_id", event.Data.LeadID), zap.Error(err))
		}
		middleware.RecordSubscriptionEvent("created")

	case "customer.subscription.updated":
		if err := h.Subscriptions.UpdateStatusByProviderSubscriptionID(ctx, event.Data.SubscriptionID, event.Data.Status); err != nil {
			h.Logger.Error("failed to update subscription", zap.Error(err))
		}
		middleware.RecordSubscriptionEvent("updated")

	case "customer.subscription.deleted":
		if err := h.Subscriptions.UpdateStatusByProviderSubscriptionID(ctx, event.Data.SubscriptionID, "canceled"); err != nil {
			h.Logger.Error("failed to cancel subscription", zap.Error(err))
			break
		}

		leadID, err := h.Subscriptions.FindLeadIDByProviderSubscriptionID(ctx, event.Data.SubscriptionID)
		if err != nil || leadID == "" {
			h.Logger.Warn("no lead for canceled subscription", zap.String("subscription_id", event.Data.SubscriptionID))
			break
		}
		if err := h.Leads.UpdateStatus(ctx, leadID, entity.LeadStatusLost); err != nil {
			h.Logger.Error("failed to mark lead lost", zap.String("lead_id", leadID), zap.Error(err))
		}
		middleware.RecordSubscriptionEvent("deleted")

	default:
		// Unhandled event types are acknowledged and ignored.
	}

	w.WriteHeader(http.StatusOK)
}

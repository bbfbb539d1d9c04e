package entity

import (
	"context"
	"time"
)

// AnalyticsEvent is a lightweight product-analytics fact. Events travel
// through the queue so a slow or down analytics store never blocks intake.
type AnalyticsEvent struct {
	EventName  string            `json:"event_name"`
	LeadID     string            `json:"lead_id,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// DownloadRecord tracks one lead-magnet delivery.
type DownloadRecord struct {
	LeadID       string    `json:"lead_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	MagnetType   string    `json:"magnet_type"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

type AnalyticsRepositoryInterface interface {
	InsertEvent(ctx context.Context, event *AnalyticsEvent) error
	InsertDownload(ctx context.Context, record *DownloadRecord) error
}

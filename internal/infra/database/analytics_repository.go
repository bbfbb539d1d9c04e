package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type AnalyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) InsertEvent(ctx context.Context, event *entity.AnalyticsEvent) error {
	properties, err := json.Marshal(event.Properties)
	if err != nil {
		return fmt.Errorf("encoding event properties: %w", err)
	}

	query := `
		INSERT INTO analytics_events (event_name, lead_id, properties, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4)
	`

	if _, err := r.DB.ExecContext(ctx, query, event.EventName, event.LeadID, properties, event.CreatedAt); err != nil {
		return fmt.Errorf("inserting analytics event: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) InsertDownload(ctx context.Context, record *entity.DownloadRecord) error {
	query := `
		INSERT INTO lead_magnet_downloads (lead_id, email, name, magnet_type, downloaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.DB.ExecContext(ctx, query, record.LeadID, record.Email, record.Name, record.MagnetType, record.DownloadedAt); err != nil {
		return fmt.Errorf("inserting download record: %w", err)
	}
	return nil
}

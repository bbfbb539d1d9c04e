package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, name, email, market, role, pain, source, status,
	classification, recommended_action, signals, rationale, classified_at,
	created_at, updated_at
`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (id, name, email, market, role, pain, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Market,
		lead.Role,
		lead.Pain,
		lead.Source,
		lead.Status,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

// FindByEmail returns the oldest lead with an exact email match, or nil
// when there is none. Email is not unique in storage.
func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE email = $1 ORDER BY created_at ASC LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *LeadRepository) FindUnclassified(ctx context.Context) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE classification IS NULL ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching unclassified leads: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *LeadRepository) List(ctx context.Context, limit, offset int) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating lead status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *LeadRepository) UpdateClassification(ctx context.Context, id string, c entity.LeadClassification) error {
	signalsJSON, err := json.Marshal(c.Signals)
	if err != nil {
		return fmt.Errorf("encoding signals: %w", err)
	}

	query := `
		UPDATE leads
		SET classification = $1,
			recommended_action = $2,
			signals = $3,
			rationale = $4,
			classified_at = NOW(),
			updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.DB.ExecContext(ctx, query, c.Classification, c.RecommendedAction, signalsJSON, c.Rationale, id)
	if err != nil {
		return fmt.Errorf("updating lead classification: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *LeadRepository) scanOne(row *sql.Row) (*entity.Lead, error) {
	lead, err := scanLead(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) scanAll(rows *sql.Rows) ([]*entity.Lead, error) {
	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func scanLead(scan func(dest ...any) error) (*entity.Lead, error) {
	var lead entity.Lead
	var role, pain, classification, recommendedAction, rationale sql.NullString
	var signalsJSON []byte
	var classifiedAt sql.NullTime

	err := scan(
		&lead.ID,
		&lead.Name,
		&lead.Email,
		&lead.Market,
		&role,
		&pain,
		&lead.Source,
		&lead.Status,
		&classification,
		&recommendedAction,
		&signalsJSON,
		&rationale,
		&classifiedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Role = role.String
	lead.Pain = pain.String
	if classification.Valid {
		lead.Classification = &classification.String
	}
	if recommendedAction.Valid {
		lead.RecommendedAction = &recommendedAction.String
	}
	if rationale.Valid {
		lead.Rationale = &rationale.String
	}
	if classifiedAt.Valid {
		t := classifiedAt.Time
		lead.ClassifiedAt = &t
	}
	if len(signalsJSON) > 0 {
		var signals entity.Signals
		if err := json.Unmarshal(signalsJSON, &signals); err == nil {
			lead.Signals = &signals
		}
	}

	return &lead, nil
}

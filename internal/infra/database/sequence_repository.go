package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/patrickboxfordpartners/gravitasindex/internal/entity"
)

type SequenceTaskRepository struct {
	DB *sql.DB
}

func NewSequenceTaskRepository(db *sql.DB) *SequenceTaskRepository {
	return &SequenceTaskRepository{DB: db}
}

func (r *SequenceTaskRepository) Create(ctx context.Context, task *entity.SequenceTask) error {
	query := `
		INSERT INTO email_sequences (id, lead_id, sequence_type, status, scheduled_for, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		task.ID,
		task.LeadID,
		task.SequenceType,
		task.Status,
		task.ScheduledFor,
		task.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating sequence task: %w", err)
	}
	return nil
}

func (r *SequenceTaskRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.SequenceTask, error) {
	query := `
		SELECT id, lead_id, sequence_type, status, scheduled_for, sent_at, COALESCE(last_error, ''), created_at
		FROM email_sequences
		WHERE status = $1 AND scheduled_for <= $2
		ORDER BY scheduled_for ASC
		LIMIT $3
	`

	rows, err := r.DB.QueryContext(ctx, query, entity.TaskStatusPending, now, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching due sequence tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.SequenceTask
	for rows.Next() {
		var task entity.SequenceTask
		var sentAt sql.NullTime

		err := rows.Scan(
			&task.ID,
			&task.LeadID,
			&task.SequenceType,
			&task.Status,
			&task.ScheduledFor,
			&sentAt,
			&task.LastError,
			&task.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning sequence task: %w", err)
		}
		if sentAt.Valid {
			t := sentAt.Time
			task.SentAt = &t
		}
		tasks = append(tasks, &task)
	}
	return tasks, rows.Err()
}

// ClaimPending is the optimistic transition out of pending. The WHERE
// clause on status makes concurrent dispatch runs race-safe: exactly one
// caller sees a row affected and proceeds to send.
func (r *SequenceTaskRepository) ClaimPending(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	query := `
		UPDATE email_sequences
		SET status = $1, sent_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.DB.ExecContext(ctx, query, entity.TaskStatusSent, sentAt, id, entity.TaskStatusPending)
	if err != nil {
		return false, fmt.Errorf("claiming sequence task: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming sequence task: %w", err)
	}
	return affected == 1, nil
}

func (r *SequenceTaskRepository) MarkFailed(ctx context.Context, id, reason string) error {
	query := `
		UPDATE email_sequences
		SET status = $1, sent_at = NULL, last_error = $2
		WHERE id = $3
	`

	if _, err := r.DB.ExecContext(ctx, query, entity.TaskStatusFailed, reason, id); err != nil {
		return fmt.Errorf("marking sequence task failed: %w", err)
	}
	return nil
}

func (r *SequenceTaskRepository) CountByLead(ctx context.Context, leadID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_sequences WHERE lead_id = $1`, leadID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting sequence tasks: %w", err)
	}
	return count, nil
}

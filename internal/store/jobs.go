package store

// jobs.go tracks import jobs: one row per upload, written at the start of
// the import and finalized with the terminal status, the processed-row
// count and the concatenated error text.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ImportJob is the persisted record of one upload.
type ImportJob struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	FileName     string     `json:"file_name"`
	Status       string     `json:"status"`
	Processed    int        `json:"processed"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// ErrJobNotFound is returned when a job id does not exist.
var ErrJobNotFound = errors.New("import job not found")

// CreateImportJob records the start of an import with status "processing".
func (s *Store) CreateImportJob(ctx context.Context, tenantID uuid.UUID, fileName string) (uuid.UUID, error) {
	id, err := s.insertReturningID(ctx,
		`INSERT INTO import_jobs (tenant_id, file_name, status)
		 VALUES ($1, $2, 'processing') RETURNING id`,
		pgUUID(tenantID), fileName)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("create import job: %w", err)
	}
	return id, nil
}

// FinishImportJob records the terminal state of an import.
func (s *Store) FinishImportJob(ctx context.Context, jobID uuid.UUID, status string, processed int, errorMessage string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE import_jobs
		 SET status = $2, processed = $3, error_message = $4, finished_at = now()
		 WHERE id = $1`,
		pgUUID(jobID), status, processed, nullText(errorMessage))
	if err != nil {
		return fmt.Errorf("finish import job: %w", err)
	}
	return nil
}

// GetImportJob loads one job record.
func (s *Store) GetImportJob(ctx context.Context, jobID uuid.UUID) (*ImportJob, error) {
	var (
		job        ImportJob
		id, tenant pgtype.UUID
		errMsg     pgtype.Text
		finished   pgtype.Timestamptz
	)

	err := s.db.QueryRow(ctx,
		`SELECT id, tenant_id, file_name, status, processed, error_message, created_at, finished_at
		 FROM import_jobs WHERE id = $1`,
		pgUUID(jobID)).
		Scan(&id, &tenant, &job.FileName, &job.Status, &job.Processed, &errMsg, &job.CreatedAt, &finished)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get import job: %w", err)
	}

	job.ID = uuid.UUID(id.Bytes)
	job.TenantID = uuid.UUID(tenant.Bytes)
	if errMsg.Valid {
		job.ErrorMessage = errMsg.String
	}
	if finished.Valid {
		t := finished.Time
		job.FinishedAt = &t
	}
	return &job, nil
}

package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storesync_api/internal/catalog/business/models"
)

var ErrJobNotFound = errors.New("import job not found")

type ImportJobRepository struct {
	db *sql.DB
}

func NewImportJobRepository(db *sql.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	config, err := json.Marshal(job.Config)
	if err != nil {
		return fmt.Errorf("encoding job config: %w", err)
	}
	progress, err := json.Marshal(job.Progress)
	if err != nil {
		return fmt.Errorf("encoding job progress: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO catalog.import_jobs (job_id, status, config, progress, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, job.ID, job.Status, config, progress, job.CreatedBy, job.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating import job: %w", err)
	}
	return nil
}

func (r *ImportJobRepository) MarkRunning(ctx context.Context, jobID string, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE catalog.import_jobs SET status = $2, started_at = $3 WHERE job_id = $1
	`, jobID, models.JobStatusRunning, startedAt)
	if err != nil {
		return fmt.Errorf("marking job %s running: %w", jobID, err)
	}
	return nil
}

func (r *ImportJobRepository) UpdateProgress(ctx context.Context, jobID string, progress models.ImportProgress) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encoding job progress: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE catalog.import_jobs SET progress = $2 WHERE job_id = $1
	`, jobID, raw)
	if err != nil {
		return fmt.Errorf("updating progress for job %s: %w", jobID, err)
	}
	return nil
}

func (r *ImportJobRepository) Finish(ctx context.Context, jobID, status string, progress models.ImportProgress, completedAt time.Time) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encoding job progress: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE catalog.import_jobs SET status = $2, progress = $3, completed_at = $4 WHERE job_id = $1
	`, jobID, status, raw, completedAt)
	if err != nil {
		return fmt.Errorf("finishing job %s: %w", jobID, err)
	}
	return nil
}

func (r *ImportJobRepository) Get(ctx context.Context, jobID string) (*models.ImportJob, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT job_id, status, config, progress, created_by, created_at, started_at, completed_at
		FROM catalog.import_jobs
		WHERE job_id = $1
	`, jobID)

	job, err := scanImportJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading job %s: %w", jobID, err)
	}
	return job, nil
}

func (r *ImportJobRepository) Recent(ctx context.Context, limit int) ([]models.ImportJob, error) {
	if limit < 1 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT job_id, status, config, progress, created_by, created_at, started_at, completed_at
		FROM catalog.import_jobs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.ImportJob
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

func scanImportJob(row rowScanner) (*models.ImportJob, error) {
	var (
		job         models.ImportJob
		configRaw   []byte
		progressRaw []byte
		createdBy   sql.NullString
		startedAt   sql.NullTime
		completedAt sql.NullTime
	)

	err := row.Scan(&job.ID, &job.Status, &configRaw, &progressRaw,
		&createdBy, &job.CreatedAt, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	job.CreatedBy = createdBy.String
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if len(configRaw) > 0 {
		if err := json.Unmarshal(configRaw, &job.Config); err != nil {
			return nil, fmt.Errorf("decoding job config: %w", err)
		}
	}
	if len(progressRaw) > 0 {
		if err := json.Unmarshal(progressRaw, &job.Progress); err != nil {
			return nil, fmt.Errorf("decoding job progress: %w", err)
		}
	}
	return &job, nil
}

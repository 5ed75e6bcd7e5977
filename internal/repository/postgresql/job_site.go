package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/jobsite"
	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/database"
)

type jobSiteRepository struct {
	db *database.DB
}

func NewJobSiteRepository(db *database.DB) jobsite.JobSiteRepository {
	return &jobSiteRepository{db: db}
}

// GetAll implements jobsite.JobSiteRepository.
func (r *jobSiteRepository) GetAll(ctx context.Context) ([]jobsite.JobSiteWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, job_id, name, start_time, end_time, weekdays, grace_minutes,
		       geofence, created_at, updated_at
		FROM job_site_windows
		ORDER BY job_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query job site windows: %w", err)
	}
	defer rows.Close()

	var windows []jobsite.JobSiteWindow
	for rows.Next() {
		w, err := scanJobSite(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read job site windows: %w", err)
	}

	return windows, nil
}

// GetByJobID implements jobsite.JobSiteRepository.
func (r *jobSiteRepository) GetByJobID(ctx context.Context, jobID string) (jobsite.JobSiteWindow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, job_id, name, start_time, end_time, weekdays, grace_minutes,
		       geofence, created_at, updated_at
		FROM job_site_windows
		WHERE job_id = $1
	`

	row := q.QueryRow(ctx, query, jobID)
	w, err := scanJobSiteRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return jobsite.JobSiteWindow{}, jobsite.ErrJobSiteNotFound
		}
		return jobsite.JobSiteWindow{}, fmt.Errorf("failed to get job site window: %w", err)
	}

	return w, nil
}

// Create implements jobsite.JobSiteRepository.
func (r *jobSiteRepository) Create(ctx context.Context, window jobsite.JobSiteWindow) (jobsite.JobSiteWindow, error) {
	q := GetQuerier(ctx, r.db)

	geofenceJSON, err := json.Marshal(window.Geofence)
	if err != nil {
		return jobsite.JobSiteWindow{}, fmt.Errorf("failed to encode geofence: %w", err)
	}

	weekdays := make([]int32, 0, len(window.Weekdays))
	for _, wd := range window.Weekdays {
		weekdays = append(weekdays, int32(wd))
	}

	query := `
		INSERT INTO job_site_windows (
			id, job_id, name, start_time, end_time, weekdays, grace_minutes, geofence
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		window.JobID,
		window.Name,
		window.StartTime,
		window.EndTime,
		weekdays,
		window.GraceMinutes,
		geofenceJSON,
	).Scan(&window.ID, &window.CreatedAt, &window.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return jobsite.JobSiteWindow{}, jobsite.ErrJobSiteExists
		}
		return jobsite.JobSiteWindow{}, fmt.Errorf("failed to create job site window: %w", err)
	}

	return window, nil
}

func scanJobSite(rows pgx.Rows) (jobsite.JobSiteWindow, error) {
	return scanJobSiteRow(rows)
}

func scanJobSiteRow(row pgx.Row) (jobsite.JobSiteWindow, error) {
	var (
		w            jobsite.JobSiteWindow
		weekdays     []int32
		geofenceJSON []byte
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(
		&w.ID, &w.JobID, &w.Name, &w.StartTime, &w.EndTime, &weekdays,
		&w.GraceMinutes, &geofenceJSON, &createdAt, &updatedAt,
	)
	if err != nil {
		return jobsite.JobSiteWindow{}, err
	}

	for _, wd := range weekdays {
		w.Weekdays = append(w.Weekdays, time.Weekday(wd))
	}
	if len(geofenceJSON) > 0 {
		if err := json.Unmarshal(geofenceJSON, &w.Geofence); err != nil {
			return jobsite.JobSiteWindow{}, fmt.Errorf("failed to decode geofence for job %s: %w", w.JobID, err)
		}
	}
	w.CreatedAt = createdAt
	w.UpdatedAt = updatedAt

	return w, nil
}

package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/attendance"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/run"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/database"
)

type runRepository struct {
	db *database.DB
}

func NewRunRepository(db *database.DB) run.RunRepository {
	return &runRepository{db: db}
}

// Create implements run.RunRepository. The run and all of its children are
// written in one transaction; a half-written run must never be visible to
// the export collaborators.
func (r *runRepository) Create(ctx context.Context, rn run.Run) (run.Run, error) {
	statusCounts, err := json.Marshal(rn.Summary.StatusCounts)
	if err != nil {
		return run.Run{}, fmt.Errorf("failed to encode status counts: %w", err)
	}

	err = WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO reconciliation_runs (
				id, started_at, completed_at, total_records,
				records_with_warning, records_with_error, status_counts
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			rn.ID, rn.StartedAt, rn.CompletedAt, rn.Summary.TotalRecords,
			rn.Summary.RecordsWithWarning, rn.Summary.RecordsWithError, statusCounts,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		for i := range rn.Attendance {
			rec := &rn.Attendance[i]
			rec.RunID = rn.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO attendance_records (
					id, run_id, record_ref, employee_id, driver_name, asset_id,
					division, job_id, date, status, expected_start, expected_end,
					actual_start, actual_end, day_crossed, notes
				) VALUES (
					gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
				) RETURNING id, created_at
			`,
				rec.RunID, rec.RecordRef, rec.EmployeeID, rec.DriverName, rec.AssetID,
				rec.Division, rec.JobID, rec.Date, rec.Status, rec.ExpectedStart, rec.ExpectedEnd,
				rec.ActualStart, rec.ActualEnd, rec.DayCrossed, rec.Notes,
			).Scan(&rec.ID, &rec.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert attendance record %s: %w", rec.RecordRef, err)
			}
		}

		for i := range rn.Allocations {
			item := &rn.Allocations[i]
			item.RunID = rn.ID
			_, err := tx.Exec(ctx, `
				INSERT INTO allocation_line_items (
					id, run_id, source_usage_record_id, cost_code, amount, percentage_applied
				) VALUES ($1, $2, $3, $4, $5, $6)
			`,
				item.ID, item.RunID, item.SourceUsageRecordID,
				item.CostCode, item.Amount, item.PercentageApplied,
			)
			if err != nil {
				return fmt.Errorf("failed to insert allocation line item for %s: %w", item.SourceUsageRecordID, err)
			}
		}

		for _, issue := range rn.Issues {
			_, err := tx.Exec(ctx, `
				INSERT INTO run_issues (run_id, severity, record_ref, code, message)
				VALUES ($1, $2, $3, $4, $5)
			`, rn.ID, issue.Severity, issue.RecordRef, issue.Code, issue.Message)
			if err != nil {
				return fmt.Errorf("failed to insert issue for %s: %w", issue.RecordRef, err)
			}
		}

		return nil
	})
	if err != nil {
		return run.Run{}, err
	}

	return rn, nil
}

// GetByID implements run.RunRepository.
func (r *runRepository) GetByID(ctx context.Context, id string) (run.Run, error) {
	q := GetQuerier(ctx, r.db)

	rn, err := r.scanRun(q.QueryRow(ctx, `
		SELECT id, started_at, completed_at, total_records,
		       records_with_warning, records_with_error, status_counts
		FROM reconciliation_runs
		WHERE id = $1
	`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return run.Run{}, run.ErrRunNotFound
		}
		return run.Run{}, fmt.Errorf("failed to get run: %w", err)
	}

	if rn.Attendance, err = r.attendanceForRun(ctx, q, id); err != nil {
		return run.Run{}, err
	}
	if rn.Allocations, err = r.allocationsForRun(ctx, q, id); err != nil {
		return run.Run{}, err
	}
	if rn.Issues, err = r.issuesForRun(ctx, q, id); err != nil {
		return run.Run{}, err
	}

	return rn, nil
}

// List implements run.RunRepository. Children are not loaded for listings.
func (r *runRepository) List(ctx context.Context, limit int) ([]run.Run, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, started_at, completed_at, total_records,
		       records_with_warning, records_with_error, status_counts
		FROM reconciliation_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []run.Run
	for rows.Next() {
		rn, err := r.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, rn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	return runs, nil
}

func (r *runRepository) scanRun(row pgx.Row) (run.Run, error) {
	var (
		rn           run.Run
		statusCounts []byte
	)
	err := row.Scan(
		&rn.ID, &rn.StartedAt, &rn.CompletedAt, &rn.Summary.TotalRecords,
		&rn.Summary.RecordsWithWarning, &rn.Summary.RecordsWithError, &statusCounts,
	)
	if err != nil {
		return run.Run{}, err
	}
	if len(statusCounts) > 0 {
		if err := json.Unmarshal(statusCounts, &rn.Summary.StatusCounts); err != nil {
			return run.Run{}, fmt.Errorf("failed to decode status counts: %w", err)
		}
	}
	return rn, nil
}

func (r *runRepository) attendanceForRun(ctx context.Context, q database.Querier, runID string) ([]attendance.AttendanceRecord, error) {
	rows, err := q.Query(ctx, `
		SELECT id, run_id, record_ref, employee_id, driver_name, asset_id,
		       division, job_id, date, status, expected_start, expected_end,
		       actual_start, actual_end, day_crossed, notes, created_at
		FROM attendance_records
		WHERE run_id = $1
		ORDER BY record_ref
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var rec attendance.AttendanceRecord
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.RecordRef, &rec.EmployeeID, &rec.DriverName, &rec.AssetID,
			&rec.Division, &rec.JobID, &rec.Date, &rec.Status, &rec.ExpectedStart, &rec.ExpectedEnd,
			&rec.ActualStart, &rec.ActualEnd, &rec.DayCrossed, &rec.Notes, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *runRepository) allocationsForRun(ctx context.Context, q database.Querier, runID string) ([]billing.AllocationLineItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, run_id, source_usage_record_id, cost_code, amount, percentage_applied
		FROM allocation_line_items
		WHERE run_id = $1
		ORDER BY source_usage_record_id, id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation line items: %w", err)
	}
	defer rows.Close()

	var items []billing.AllocationLineItem
	for rows.Next() {
		var item billing.AllocationLineItem
		if err := rows.Scan(
			&item.ID, &item.RunID, &item.SourceUsageRecordID,
			&item.CostCode, &item.Amount, &item.PercentageApplied,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation line item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *runRepository) issuesForRun(ctx context.Context, q database.Querier, runID string) ([]validation.Issue, error) {
	rows, err := q.Query(ctx, `
		SELECT severity, record_ref, code, message
		FROM run_issues
		WHERE run_id = $1
		ORDER BY record_ref, code
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run issues: %w", err)
	}
	defer rows.Close()

	var issues []validation.Issue
	for rows.Next() {
		var issue validation.Issue
		if err := rows.Scan(&issue.Severity, &issue.RecordRef, &issue.Code, &issue.Message); err != nil {
			return nil, fmt.Errorf("failed to scan run issue: %w", err)
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/attendance"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/jobsite"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/record"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/run"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
	attendanceSvc "github.com/groundworks-ops/fleetrecon-go/internal/service/attendance"
	billingSvc "github.com/groundworks-ops/fleetrecon-go/internal/service/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/service/label"
	"github.com/groundworks-ops/fleetrecon-go/internal/service/report"
	"github.com/groundworks-ops/fleetrecon-go/internal/service/shift"
)

// RunServiceImpl is the batch reconciliation pipeline: parse labels,
// normalize times, group per employee, classify per job window, allocate
// usage billing, and persist the completed run. Records are isolated from
// each other; a bad row becomes issues on the run, never a batch failure.
type RunServiceImpl struct {
	runRepo     run.RunRepository
	jobSiteRepo jobsite.JobSiteRepository
	ruleRepo    billing.AllocationRuleRepository
	normalizer  *shift.Normalizer
	classifier  *attendanceSvc.Classifier
}

func NewRunService(
	runRepo run.RunRepository,
	jobSiteRepo jobsite.JobSiteRepository,
	ruleRepo billing.AllocationRuleRepository,
	maxShift time.Duration,
) run.RunService {
	return &RunServiceImpl{
		runRepo:     runRepo,
		jobSiteRepo: jobSiteRepo,
		ruleRepo:    ruleRepo,
		normalizer:  shift.NewNormalizer(maxShift),
		classifier:  attendanceSvc.NewClassifier(),
	}
}

// Submit implements run.RunService.
func (s *RunServiceImpl) Submit(ctx context.Context, req run.SubmitRunRequest) (run.RunResponse, error) {
	if len(req.Records) == 0 && len(req.Usage) == 0 {
		return run.RunResponse{}, run.ErrEmptyBatch
	}
	if err := req.Validate(); err != nil {
		return run.RunResponse{}, err
	}

	startedAt := time.Now().UTC()
	reporter := report.NewReporter()

	windows, err := s.loadWindows(ctx, reporter)
	if err != nil {
		return run.RunResponse{}, err
	}

	rules, err := s.ruleRepo.GetAll(ctx)
	if err != nil {
		return run.RunResponse{}, fmt.Errorf("failed to load allocation rules: %w", err)
	}
	ruleSet, ruleIssues := billingSvc.NewRuleSet(rules)
	reporter.AddAll(ruleIssues)

	attendanceRecords, err := s.classifyBatch(ctx, req.Records, windows, reporter)
	if err != nil {
		return run.RunResponse{}, err
	}

	allocator := billingSvc.NewAllocator(ruleSet)
	allocations := make([]billing.AllocationLineItem, 0, len(req.Usage))
	for _, input := range req.Usage {
		allocations = append(allocations, allocator.Allocate(input.ToUsageRecord())...)
	}

	result := run.Run{
		ID:          uuid.NewString(),
		StartedAt:   startedAt,
		CompletedAt: time.Now().UTC(),
		Summary:     reporter.Summary(),
		Attendance:  attendanceRecords,
		Allocations: allocations,
		Issues:      reporter.Issues(),
	}

	stored, err := s.runRepo.Create(ctx, result)
	if err != nil {
		return run.RunResponse{}, fmt.Errorf("failed to persist run: %w", err)
	}

	return run.ToResponse(stored), nil
}

// classifyBatch runs the two collection-then-classification phases over the
// raw time records. Output order matches input order regardless of how the
// per-group classification interleaves.
func (s *RunServiceImpl) classifyBatch(
	ctx context.Context,
	inputs []run.RawRecordInput,
	windows map[string]jobsite.JobSiteWindow,
	reporter *report.Reporter,
) ([]attendance.AttendanceRecord, error) {
	results := make([]attendance.AttendanceRecord, len(inputs))
	entries := make([]shift.Entry, 0, len(inputs))

	// Phase 1: parse and normalize each row independently. Rows whose
	// times cannot be normalized are retained for audit as not_on_job but
	// excluded from window evaluation.
	for i, input := range inputs {
		raw := input.ToRawRecord(i)
		reporter.RecordSeen()

		identity, parseIssues := label.Parse(raw.AssetLabel)
		for _, issue := range parseIssues {
			issue.RecordRef = raw.ID
			reporter.Add(issue)
		}

		normalized, err := s.normalizer.Normalize(raw.Date, raw.TimeStart, raw.TimeStop)
		if err != nil {
			reporter.Warn(raw.ID, timeIssueCode(err), err.Error())
			results[i] = unclassifiableRecord(raw, identity, err)
			reporter.CountStatus(results[i].Status)
			continue
		}

		normalized.EmployeeID = identity.EmployeeID
		normalized.AssetID = identity.AssetID
		normalized.Division = identity.Division
		normalized.JobID = raw.JobID
		normalized.Latitude = raw.Latitude
		normalized.Longitude = raw.Longitude

		entries = append(entries, shift.Entry{
			RecordRef: raw.ID,
			Seq:       i,
			Identity:  identity,
			Shift:     normalized,
		})
	}

	// Grouping pass: detect conflicting assignments before classification.
	groups := shift.Resolve(entries)
	for _, group := range groups {
		reporter.AddAll(shift.DetectOverlaps(group))
	}

	// Phase 2: groups are independent, classify them in parallel.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, group := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, entry := range group.Entries {
				rec := s.classifyEntry(entry, windows, reporter)
				results[entry.Seq] = rec
				reporter.CountStatus(rec.Status)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *RunServiceImpl) classifyEntry(
	entry shift.Entry,
	windows map[string]jobsite.JobSiteWindow,
	reporter *report.Reporter,
) attendance.AttendanceRecord {
	window, ok := windows[entry.Shift.JobID]
	if !ok {
		reporter.Warn(entry.RecordRef, validation.CodeUnknownJobSite,
			fmt.Sprintf("no job site window configured for job %q", entry.Shift.JobID))
		actualStart := entry.Shift.StartAt
		actualEnd := entry.Shift.StopAt
		return attendance.AttendanceRecord{
			RecordRef:   entry.RecordRef,
			EmployeeID:  entry.Identity.EmployeeID,
			DriverName:  entry.Identity.DriverName,
			AssetID:     entry.Identity.AssetID,
			Division:    entry.Identity.Division,
			JobID:       entry.Shift.JobID,
			Date:        entry.Shift.Date,
			Status:      attendance.StatusNotOnJob,
			ActualStart: &actualStart,
			ActualEnd:   &actualEnd,
			DayCrossed:  entry.Shift.DayCrossed,
			Notes:       "unclassifiable: no job site window configured",
		}
	}

	rec, issues := s.classifier.Classify(entry, window)
	reporter.AddAll(issues)
	return rec
}

// unclassifiableRecord retains a row with unusable times for audit.
func unclassifiableRecord(raw record.RawRecord, identity record.ParsedIdentity, cause error) attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		RecordRef:  raw.ID,
		EmployeeID: identity.EmployeeID,
		DriverName: identity.DriverName,
		AssetID:    identity.AssetID,
		Division:   identity.Division,
		JobID:      raw.JobID,
		Date:       raw.Date,
		Status:     attendance.StatusNotOnJob,
		Notes:      "unclassifiable: " + cause.Error(),
	}
}

func timeIssueCode(err error) string {
	switch {
	case errors.Is(err, record.ErrAmbiguousOvernight):
		return validation.CodeAmbiguousOvernight
	case errors.Is(err, record.ErrShiftTooLong):
		return validation.CodeShiftTooLong
	default:
		return validation.CodeMalformedTime
	}
}

// loadWindows fetches all configured job site windows, dropping (with an
// Error issue) any whose geofence fails validation. A dropped geofence only
// disables spatial checks for that job; its time window still applies.
func (s *RunServiceImpl) loadWindows(ctx context.Context, reporter *report.Reporter) (map[string]jobsite.JobSiteWindow, error) {
	all, err := s.jobSiteRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load job site windows: %w", err)
	}

	windows := make(map[string]jobsite.JobSiteWindow, len(all))
	for _, w := range all {
		if err := jobsite.ValidateGeofence(w.Geofence); err != nil {
			reporter.Error(w.JobID, validation.CodeInvalidGeofence,
				fmt.Sprintf("job %s geofence rejected: %v", w.JobID, err))
			w.Geofence = jobsite.Geofence{}
		}
		windows[w.JobID] = w
	}
	return windows, nil
}

// Get implements run.RunService.
func (s *RunServiceImpl) Get(ctx context.Context, id string) (run.RunResponse, error) {
	stored, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, run.ErrRunNotFound) {
			return run.RunResponse{}, run.ErrRunNotFound
		}
		return run.RunResponse{}, fmt.Errorf("failed to get run: %w", err)
	}
	return run.ToResponse(stored), nil
}

// List implements run.RunService.
func (s *RunServiceImpl) List(ctx context.Context, limit int) ([]run.RunListItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.runRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	items := make([]run.RunListItem, 0, len(runs))
	for _, r := range runs {
		items = append(items, run.ToListItem(r))
	}
	return items, nil
}

package pipeline

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/attendance"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/jobsite"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/run"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
)

// ===== IN-MEMORY FAKES =====

type fakeRunRepo struct {
	runs  map[string]run.Run
	order []string
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]run.Run)}
}

func (f *fakeRunRepo) Create(ctx context.Context, r run.Run) (run.Run, error) {
	for i := range r.Attendance {
		r.Attendance[i].ID = uuid.NewString()
		r.Attendance[i].RunID = r.ID
	}
	f.runs[r.ID] = r
	f.order = append(f.order, r.ID)
	return r, nil
}

func (f *fakeRunRepo) GetByID(ctx context.Context, id string) (run.Run, error) {
	r, ok := f.runs[id]
	if !ok {
		return run.Run{}, run.ErrRunNotFound
	}
	return r, nil
}

func (f *fakeRunRepo) List(ctx context.Context, limit int) ([]run.Run, error) {
	var out []run.Run
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.runs[f.order[i]])
	}
	return out, nil
}

type fakeJobSiteRepo struct {
	windows []jobsite.JobSiteWindow
}

func (f *fakeJobSiteRepo) GetAll(ctx context.Context) ([]jobsite.JobSiteWindow, error) {
	return f.windows, nil
}

func (f *fakeJobSiteRepo) GetByJobID(ctx context.Context, jobID string) (jobsite.JobSiteWindow, error) {
	for _, w := range f.windows {
		if w.JobID == jobID {
			return w, nil
		}
	}
	return jobsite.JobSiteWindow{}, jobsite.ErrJobSiteNotFound
}

func (f *fakeJobSiteRepo) Create(ctx context.Context, w jobsite.JobSiteWindow) (jobsite.JobSiteWindow, error) {
	w.ID = uuid.NewString()
	f.windows = append(f.windows, w)
	return w, nil
}

type fakeRuleRepo struct {
	rules []billing.AllocationRule
}

func (f *fakeRuleRepo) GetAll(ctx context.Context) ([]billing.AllocationRule, error) {
	return f.rules, nil
}

func (f *fakeRuleRepo) Create(ctx context.Context, rule billing.AllocationRule) (billing.AllocationRule, error) {
	rule.ID = uuid.NewString()
	f.rules = append(f.rules, rule)
	return rule, nil
}

// ===== HELPERS =====

func pct(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newTestService(windows []jobsite.JobSiteWindow, rules []billing.AllocationRule) (run.RunService, *fakeRunRepo) {
	runRepo := newFakeRunRepo()
	svc := NewRunService(
		runRepo,
		&fakeJobSiteRepo{windows: windows},
		&fakeRuleRepo{rules: rules},
		24*time.Hour,
	)
	return svc, runRepo
}

func defaultWindow() jobsite.JobSiteWindow {
	return jobsite.JobSiteWindow{
		ID:           "w1",
		JobID:        "JOB-7",
		StartTime:    "07:00",
		EndTime:      "15:30",
		GraceMinutes: 10,
	}
}

func issueCodes(issues []validation.Issue) []string {
	codes := make([]string, 0, len(issues))
	for _, issue := range issues {
		codes = append(codes, issue.Code)
	}
	return codes
}

// ===== SUBMIT TESTS =====

func TestSubmit_MixedBatch(t *testing.T) {
	t.Parallel()
	svc, runRepo := newTestService(
		[]jobsite.JobSiteWindow{defaultWindow()},
		[]billing.AllocationRule{{
			ID:      "rule1",
			JobID:   "JOB-7",
			AssetID: "ET-32",
			Splits: []billing.AllocationSplit{
				{CostCode: "CC-100", Percentage: pct("50")},
				{CostCode: "CC-200", Percentage: pct("30")},
				{CostCode: "CC-300", Percentage: pct("20")},
			},
		}},
	)

	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Ref: "r1", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-32 James T. Wilson (EMP2345) [DFW]", TimeStart: "07:05", TimeStop: "15:25"},
			{Ref: "r2", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-40 Ana Reyes (EMP9) [DFW]", TimeStart: "07:20", TimeStop: "15:30"},
			{Ref: "r3", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-55 ??? [DFW]", TimeStart: "garbage", TimeStop: "15:00"},
			{Ref: "r4", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-60 Bo Chen (EMP77) [DFW]", TimeStart: "22:45", TimeStop: "06:20 (+1)"},
		},
		Usage: []run.UsageRecordInput{
			{Ref: "u1", Date: "2025-03-10", JobID: "JOB-7", AssetID: "ET-32", CostCode: "CC-DEF", Amount: pct("1000.00")},
		},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 4, resp.Summary.TotalRecords)

	// Output order matches input order.
	require.Len(t, resp.Attendance, 4)
	assert.Equal(t, "r1", resp.Attendance[0].RecordRef)
	assert.Equal(t, attendance.StatusOnTime, resp.Attendance[0].Status)
	assert.Equal(t, "r2", resp.Attendance[1].RecordRef)
	assert.Equal(t, attendance.StatusLateStart, resp.Attendance[1].Status)

	// The garbled row is retained, not dropped.
	assert.Equal(t, "r3", resp.Attendance[2].RecordRef)
	assert.Equal(t, attendance.StatusNotOnJob, resp.Attendance[2].Status)
	assert.Contains(t, resp.Attendance[2].Notes, "unclassifiable")
	assert.Nil(t, resp.Attendance[2].EmployeeID)

	// The marked overnight row classifies normally; the window runs 07:00 to
	// 15:30, so a 22:45 start is a late one.
	assert.Equal(t, "r4", resp.Attendance[3].RecordRef)
	assert.True(t, resp.Attendance[3].DayCrossed)

	// $1000 at 50/30/20.
	require.Len(t, resp.Allocations, 3)
	assert.True(t, resp.Allocations[0].Amount.Equal(pct("500.00")))
	assert.True(t, resp.Allocations[1].Amount.Equal(pct("300.00")))
	assert.True(t, resp.Allocations[2].Amount.Equal(pct("200.00")))

	codes := issueCodes(resp.Issues)
	assert.Contains(t, codes, validation.CodeMalformedTime)
	assert.Contains(t, codes, validation.CodeUnknownDriver)

	// The run was persisted.
	stored, err := runRepo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Attendance, 4)
}

func TestSubmit_UnknownJobSite(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(nil, nil)

	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Ref: "r1", Date: "2025-03-10", JobID: "JOB-MISSING", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "07:00", TimeStop: "15:00"},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Attendance, 1)
	assert.Equal(t, attendance.StatusNotOnJob, resp.Attendance[0].Status)
	assert.Contains(t, issueCodes(resp.Issues), validation.CodeUnknownJobSite)
}

func TestSubmit_AmbiguousOvernightFlagged(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService([]jobsite.JobSiteWindow{defaultWindow()}, nil)

	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			// Reversed times without a marker must not silently become an
			// overnight shift.
			{Ref: "r1", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "22:45", TimeStop: "06:20"},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Attendance, 1)
	assert.Equal(t, attendance.StatusNotOnJob, resp.Attendance[0].Status)
	assert.Contains(t, issueCodes(resp.Issues), validation.CodeAmbiguousOvernight)
}

func TestSubmit_OverlappingAssignmentsWarned(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService([]jobsite.JobSiteWindow{defaultWindow()}, nil)

	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Ref: "r1", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "07:00", TimeStop: "12:00"},
			{Ref: "r2", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-40 James Wilson (EMP1) [DFW]", TimeStart: "11:00", TimeStop: "15:00"},
		},
	})

	require.NoError(t, err)
	// Both records survive classification despite the overlap.
	assert.Len(t, resp.Attendance, 2)
	assert.Contains(t, issueCodes(resp.Issues), validation.CodeOverlappingAssignment)
}

func TestSubmit_InvalidRuleFallsBackPerRecord(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(
		[]jobsite.JobSiteWindow{defaultWindow()},
		[]billing.AllocationRule{{
			ID:      "bad",
			JobID:   "JOB-7",
			AssetID: "ET-32",
			Splits: []billing.AllocationSplit{
				{CostCode: "CC-100", Percentage: pct("60")},
				{CostCode: "CC-200", Percentage: pct("60")},
			},
		}},
	)

	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Usage: []run.UsageRecordInput{
			{Ref: "u1", Date: "2025-03-10", JobID: "JOB-7", AssetID: "ET-32", CostCode: "CC-DEF", Amount: pct("100.00")},
		},
	})

	require.NoError(t, err)
	// The rejected rule never allocates; the usage falls back to its own
	// cost code and the rejection is reported.
	require.Len(t, resp.Allocations, 1)
	assert.Equal(t, "CC-DEF", resp.Allocations[0].CostCode)
	assert.True(t, resp.Allocations[0].Amount.Equal(pct("100.00")))
	assert.Contains(t, issueCodes(resp.Issues), validation.CodeInvalidAllocationRule)
}

func TestSubmit_InvalidGeofenceDisablesSpatialCheckOnly(t *testing.T) {
	t.Parallel()
	badRadius := -5.0
	centerLat, centerLon := 32.7767, -96.7970
	w := defaultWindow()
	w.Geofence = jobsite.Geofence{
		CenterLatitude:  &centerLat,
		CenterLongitude: &centerLon,
		RadiusMeters:    &badRadius,
	}
	svc, _ := newTestService([]jobsite.JobSiteWindow{w}, nil)

	offSiteLat, offSiteLon := 40.0, -100.0
	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Ref: "r1", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "07:05", TimeStop: "15:25", Latitude: &offSiteLat, Longitude: &offSiteLon},
		},
	})

	require.NoError(t, err)
	// The broken fence is reported and ignored; the time window still
	// classifies the row.
	require.Len(t, resp.Attendance, 1)
	assert.Equal(t, attendance.StatusOnTime, resp.Attendance[0].Status)
	assert.Contains(t, issueCodes(resp.Issues), validation.CodeInvalidGeofence)
}

func TestSubmit_EmptyBatchRejected(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(nil, nil)

	_, err := svc.Submit(context.Background(), run.SubmitRunRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, run.ErrEmptyBatch)
}

func TestSubmit_DuplicateRefsKeepEveryRecord(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService([]jobsite.JobSiteWindow{defaultWindow()}, nil)

	// Refs come from the caller and nothing guarantees they are unique. Two
	// rows sharing one must both come back classified, in input order.
	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Ref: "r1", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "07:05", TimeStop: "15:25"},
			{Ref: "r1", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-40 Ana Reyes (EMP2) [DFW]", TimeStart: "07:20", TimeStop: "15:30"},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Attendance, 2)
	for _, rec := range resp.Attendance {
		assert.Equal(t, "r1", rec.RecordRef)
		assert.NotEmpty(t, rec.Status)
	}
	assert.Equal(t, attendance.StatusOnTime, resp.Attendance[0].Status)
	assert.Equal(t, attendance.StatusLateStart, resp.Attendance[1].Status)
}

func TestSubmit_ExplicitRefCollidingWithPositionalFallback(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService([]jobsite.JobSiteWindow{defaultWindow()}, nil)

	// The first row names itself "row-2", the same ref the second (refless)
	// row gets positionally. Neither classification may be lost.
	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Ref: "row-2", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "07:05", TimeStop: "15:25"},
			{Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-40 Ana Reyes (EMP2) [DFW]", TimeStart: "13:00", TimeStop: "15:30"},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Attendance, 2)
	assert.Equal(t, attendance.StatusOnTime, resp.Attendance[0].Status)
	assert.Equal(t, attendance.StatusLateStart, resp.Attendance[1].Status)
	assert.Equal(t, "ET-32", resp.Attendance[0].AssetID)
	assert.Equal(t, "ET-40", resp.Attendance[1].AssetID)
}

func TestSubmit_PositionalRefsAssigned(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService([]jobsite.JobSiteWindow{defaultWindow()}, nil)

	resp, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "07:00", TimeStop: "15:30"},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Attendance, 1)
	assert.Equal(t, "row-1", resp.Attendance[0].RecordRef)
}

func TestSubmit_LargeBatchKeepsOrder(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService([]jobsite.JobSiteWindow{defaultWindow()}, nil)

	req := run.SubmitRunRequest{}
	for i := 0; i < 200; i++ {
		req.Records = append(req.Records, run.RawRecordInput{
			Date:       "2025-03-10",
			JobID:      "JOB-7",
			AssetLabel: "ET-32 Driver " + uuid.NewString()[:8] + " (EMP" + uuid.NewString()[:4] + ") [DFW]",
			TimeStart:  "07:00",
			TimeStop:   "15:30",
		})
	}

	resp, err := svc.Submit(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Attendance, 200)
	for i, rec := range resp.Attendance {
		assert.Equal(t, "row-"+strconv.Itoa(i+1), rec.RecordRef)
	}
	assert.Equal(t, 200, resp.Summary.StatusCounts[attendance.StatusOnTime])
}

// ===== GET / LIST TESTS =====

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(nil, nil)

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, run.ErrRunNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService([]jobsite.JobSiteWindow{defaultWindow()}, nil)

	first, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Ref: "r1", Date: "2025-03-10", JobID: "JOB-7", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "07:00", TimeStop: "15:30"},
		},
	})
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), run.SubmitRunRequest{
		Records: []run.RawRecordInput{
			{Ref: "r1", Date: "2025-03-11", JobID: "JOB-7", AssetLabel: "ET-32 James Wilson (EMP1) [DFW]", TimeStart: "07:00", TimeStop: "15:30"},
		},
	})
	require.NoError(t, err)

	items, err := svc.List(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

package report

import (
	"sort"
	"sync"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
)

// Reporter accumulates validation issues and summary statistics for one
// run. Classification fans out per employee group, so recording is
// mutex-guarded. The reporter observes; it never mutates upstream entities.
type Reporter struct {
	mu           sync.Mutex
	issues       []validation.Issue
	statusCounts map[string]int
	totalRecords int
	warnRefs     map[string]struct{}
	errorRefs    map[string]struct{}
}

func NewReporter() *Reporter {
	return &Reporter{
		statusCounts: make(map[string]int),
		warnRefs:     make(map[string]struct{}),
		errorRefs:    make(map[string]struct{}),
	}
}

// RecordSeen counts an input record toward the run total.
func (r *Reporter) RecordSeen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totalRecords++
}

// Add records a fully built issue.
func (r *Reporter) Add(issue validation.Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(issue)
}

// AddAll records a batch of issues.
func (r *Reporter) AddAll(issues []validation.Issue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, issue := range issues {
		r.add(issue)
	}
}

func (r *Reporter) add(issue validation.Issue) {
	r.issues = append(r.issues, issue)
	if issue.RecordRef == "" {
		return
	}
	switch issue.Severity {
	case validation.SeverityWarning:
		r.warnRefs[issue.RecordRef] = struct{}{}
	case validation.SeverityError:
		r.errorRefs[issue.RecordRef] = struct{}{}
	}
}

// Warn records a warning issue for a record.
func (r *Reporter) Warn(recordRef, code, message string) {
	r.Add(validation.Issue{
		Severity:  validation.SeverityWarning,
		RecordRef: recordRef,
		Code:      code,
		Message:   message,
	})
}

// Error records an error issue for a record.
func (r *Reporter) Error(recordRef, code, message string) {
	r.Add(validation.Issue{
		Severity:  validation.SeverityError,
		RecordRef: recordRef,
		Code:      code,
		Message:   message,
	})
}

// CountStatus tallies a classification outcome into the histogram.
func (r *Reporter) CountStatus(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusCounts[status]++
}

// Issues returns a copy of the accumulated issues in a deterministic order
// (record ref, then code), regardless of how classification interleaved.
func (r *Reporter) Issues() []validation.Issue {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]validation.Issue, len(r.issues))
	copy(out, r.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RecordRef != out[j].RecordRef {
			return out[i].RecordRef < out[j].RecordRef
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Summary builds the per-run statistics block.
func (r *Reporter) Summary() validation.RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[string]int, len(r.statusCounts))
	for status, count := range r.statusCounts {
		counts[status] = count
	}
	return validation.RunSummary{
		TotalRecords:       r.totalRecords,
		RecordsWithWarning: len(r.warnRefs),
		RecordsWithError:   len(r.errorRefs),
		StatusCounts:       counts,
	}
}

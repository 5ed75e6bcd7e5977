package shift

import (
	"fmt"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/record"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
)

// Entry is one successfully normalized shift together with its identity and
// the reference used for issue reporting. RecordRef is caller supplied and
// not guaranteed unique; Seq, the entry's position in the submitted batch,
// is the identity callers can rely on.
type Entry struct {
	RecordRef string
	Seq       int
	Identity  record.ParsedIdentity
	Shift     record.NormalizedShift
}

// Group is every shift claimed for one employee on one calendar day, across
// assets. Entries without an employee ID form singleton groups: grouping on
// an absent key would merge unrelated rows.
type Group struct {
	EmployeeID *string
	Date       string // YYYY-MM-DD
	Entries    []Entry
}

// Resolve groups entries by (employee, date). Nothing is dropped: every
// entry survives into exactly one group, in input order, so resolving the
// same record set twice yields identical groups.
func Resolve(entries []Entry) []Group {
	groups := make([]Group, 0, len(entries))
	index := make(map[string]int)

	for _, entry := range entries {
		if entry.Identity.EmployeeID == nil {
			groups = append(groups, Group{
				Date:    entry.Shift.Date.Format("2006-01-02"),
				Entries: []Entry{entry},
			})
			continue
		}

		key := *entry.Identity.EmployeeID + "|" + entry.Shift.Date.Format("2006-01-02")
		if i, ok := index[key]; ok {
			groups[i].Entries = append(groups[i].Entries, entry)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{
			EmployeeID: entry.Identity.EmployeeID,
			Date:       entry.Shift.Date.Format("2006-01-02"),
			Entries:    []Entry{entry},
		})
	}

	return groups
}

// DetectOverlaps flags pairs of shifts within a group whose time windows
// overlap: two assets claiming the same employee at the same time. The
// warning does not block classification of either record.
func DetectOverlaps(g Group) []validation.Issue {
	var issues []validation.Issue

	for i := 0; i < len(g.Entries); i++ {
		for j := i + 1; j < len(g.Entries); j++ {
			a, b := g.Entries[i], g.Entries[j]
			if a.Shift.StartAt.Before(b.Shift.StopAt) && b.Shift.StartAt.Before(a.Shift.StopAt) {
				issues = append(issues, validation.Issue{
					Severity:  validation.SeverityWarning,
					RecordRef: b.RecordRef,
					Code:      validation.CodeOverlappingAssignment,
					Message: fmt.Sprintf("overlaps %s: assets %s and %s both claim this employee",
						a.RecordRef, a.Shift.AssetID, b.Shift.AssetID),
				})
			}
		}
	}

	return issues
}

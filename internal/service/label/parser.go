package label

import (
	"regexp"
	"strings"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/record"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
)

// Asset labels look like "ET-32 James T. Wilson (EMP2345) [DFW]" but come
// from hand-entered sheets and legacy exports, so any part can be missing
// or garbled. Parse never fails: one bad row must not abort a batch.

var (
	parenRegex   = regexp.MustCompile(`\(([^)]*)\)`)
	bracketRegex = regexp.MustCompile(`\[([^\]]*)\]`)
)

// Placeholder tokens that operators type when the driver is not known.
var placeholders = []string{"???", "UNKNOWN", "UNASSIGNED"}

func isPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	upper := strings.ToUpper(s)
	for _, p := range placeholders {
		if upper == p {
			return true
		}
	}
	return false
}

// Parse extracts asset ID, driver name, employee ID and division from a
// free-text asset label. Missing substructure degrades to sentinel values;
// the returned issues carry warnings only, with RecordRef left for the
// caller to fill in.
func Parse(assetLabel string) (record.ParsedIdentity, []validation.Issue) {
	var issues []validation.Issue

	label := strings.TrimSpace(assetLabel)
	if isPlaceholder(label) {
		issues = append(issues, validation.Issue{
			Severity: validation.SeverityWarning,
			Code:     validation.CodeUnparseableLabel,
			Message:  "asset label is empty or a placeholder: " + strings.TrimSpace(assetLabel),
		})
		return record.ParsedIdentity{
			AssetID:    record.UnknownAsset,
			DriverName: record.UnknownDriver,
			EmployeeID: nil,
			Division:   record.UnknownDivision,
		}, issues
	}

	identity := record.ParsedIdentity{
		AssetID:    record.UnknownAsset,
		DriverName: record.UnknownDriver,
		Division:   record.UnknownDivision,
	}

	// Employee ID lives in the first parenthesized group. Absent is not an
	// error by itself, but it degrades grouping downstream, so warn.
	if m := parenRegex.FindStringSubmatch(label); m != nil && strings.TrimSpace(m[1]) != "" {
		employeeID := strings.TrimSpace(m[1])
		identity.EmployeeID = &employeeID
	} else {
		issues = append(issues, validation.Issue{
			Severity: validation.SeverityWarning,
			Code:     validation.CodeMissingEmployeeID,
			Message:  "asset label has no employee id group",
		})
	}

	// Division lives in the first bracketed group.
	if m := bracketRegex.FindStringSubmatch(label); m != nil && strings.TrimSpace(m[1]) != "" {
		identity.Division = strings.TrimSpace(m[1])
	} else {
		issues = append(issues, validation.Issue{
			Severity: validation.SeverityWarning,
			Code:     validation.CodeMissingDivision,
			Message:  "asset label has no division group",
		})
	}

	// Whatever remains after stripping the groups is "<asset> <driver name>".
	remainder := parenRegex.ReplaceAllString(label, " ")
	remainder = bracketRegex.ReplaceAllString(remainder, " ")
	tokens := strings.Fields(remainder)

	if len(tokens) > 0 {
		identity.AssetID = tokens[0]
	}

	name := strings.Join(tokens[1:], " ")
	if isPlaceholder(name) {
		// Placeholder driver names force the driver identity back to
		// sentinels: a row claiming "???" drove the asset carries no
		// trustworthy person data, employee id group included.
		identity.DriverName = record.UnknownDriver
		identity.EmployeeID = nil
		issues = append(issues, validation.Issue{
			Severity: validation.SeverityWarning,
			Code:     validation.CodeUnknownDriver,
			Message:  "driver name is empty or a placeholder",
		})
	} else {
		identity.DriverName = name
	}

	return identity, issues
}

package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageRecord is one billable equipment usage entry.
type UsageRecord struct {
	ID            string
	JobID         string
	AssetID       string
	AssetCategory string
	// CostCode is the record's own cost code, used for the default
	// single-line allocation when no rule matches.
	CostCode string
	Amount   decimal.Decimal
	Date     time.Time
}

// AllocationSplit is one (cost code, percentage) pair of a rule.
type AllocationSplit struct {
	CostCode   string          `json:"cost_code"`
	Percentage decimal.Decimal `json:"percentage"`
}

// AllocationRule maps a job/asset key to an ordered percentage split across
// cost codes. A rule is keyed by either a specific asset ID or an asset
// category; an exact asset match always wins over a category match.
// Percentages of a valid rule sum to exactly 100.
type AllocationRule struct {
	ID            string
	JobID         string
	AssetID       string
	AssetCategory string
	Splits        []AllocationSplit
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Key identifies the rule for duplicate detection and issue reporting.
func (r AllocationRule) Key() string {
	if r.AssetID != "" {
		return r.JobID + "/asset:" + r.AssetID
	}
	return r.JobID + "/category:" + r.AssetCategory
}

// AllocationLineItem is one allocated portion of a usage record's billable
// amount. For a given source record the emitted amounts sum exactly to the
// original amount; rounding drift is reconciled into the last line item.
type AllocationLineItem struct {
	ID                  string
	RunID               string
	SourceUsageRecordID string
	CostCode            string
	Amount              decimal.Decimal
	PercentageApplied   decimal.Decimal
}

package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/domain/validation"
)

var hundred = decimal.NewFromInt(100)

// RuleSet is the validated, indexed form of the configured allocation
// rules. Rules that fail validation never make it into the set, so a bad
// rule cannot silently misallocate live billing data: the affected job or
// asset simply falls back to the default single-line allocation.
type RuleSet struct {
	byAsset    map[string]billing.AllocationRule
	byCategory map[string]billing.AllocationRule
}

// NewRuleSet validates and indexes allocation rules. Each rejected rule
// produces an Error issue naming the rule; other rules are unaffected.
func NewRuleSet(rules []billing.AllocationRule) (*RuleSet, []validation.Issue) {
	set := &RuleSet{
		byAsset:    make(map[string]billing.AllocationRule),
		byCategory: make(map[string]billing.AllocationRule),
	}
	var issues []validation.Issue

	for _, rule := range rules {
		if err := validateRule(rule); err != nil {
			issues = append(issues, validation.Issue{
				Severity:  validation.SeverityError,
				RecordRef: rule.Key(),
				Code:      validation.CodeInvalidAllocationRule,
				Message:   fmt.Sprintf("rule %s rejected: %v", rule.Key(), err),
			})
			continue
		}

		if rule.AssetID != "" {
			key := assetKey(rule.JobID, rule.AssetID)
			if _, exists := set.byAsset[key]; exists {
				issues = append(issues, duplicateIssue(rule))
				continue
			}
			set.byAsset[key] = rule
			continue
		}

		key := categoryKey(rule.JobID, rule.AssetCategory)
		if _, exists := set.byCategory[key]; exists {
			issues = append(issues, duplicateIssue(rule))
			continue
		}
		set.byCategory[key] = rule
	}

	return set, issues
}

func duplicateIssue(rule billing.AllocationRule) validation.Issue {
	return validation.Issue{
		Severity:  validation.SeverityWarning,
		RecordRef: rule.Key(),
		Code:      validation.CodeDuplicateRule,
		Message:   fmt.Sprintf("rule %s duplicates an earlier rule; keeping the first", rule.Key()),
	}
}

func validateRule(rule billing.AllocationRule) error {
	if len(rule.Splits) == 0 {
		return billing.ErrEmptySplits
	}
	if rule.AssetID == "" && rule.AssetCategory == "" {
		return billing.ErrMissingRuleTarget
	}
	sum := decimal.Zero
	for _, split := range rule.Splits {
		if split.Percentage.IsNegative() {
			return billing.ErrNegativePercentage
		}
		sum = sum.Add(split.Percentage)
	}
	if !sum.Equal(hundred) {
		return fmt.Errorf("%w (got %s)", billing.ErrInvalidPercentages, sum)
	}
	return nil
}

// Resolve finds the rule for a usage record. Precedence: exact asset ID
// match, then asset category match; no match means the caller applies the
// default single-line allocation.
func (s *RuleSet) Resolve(jobID, assetID, assetCategory string) (billing.AllocationRule, bool) {
	if assetID != "" {
		if rule, ok := s.byAsset[assetKey(jobID, assetID)]; ok {
			return rule, true
		}
	}
	if assetCategory != "" {
		if rule, ok := s.byCategory[categoryKey(jobID, assetCategory)]; ok {
			return rule, true
		}
	}
	return billing.AllocationRule{}, false
}

// Len reports how many rules survived validation.
func (s *RuleSet) Len() int {
	return len(s.byAsset) + len(s.byCategory)
}

func assetKey(jobID, assetID string) string {
	return jobID + "|" + assetID
}

func categoryKey(jobID, category string) string {
	return jobID + "|" + category
}

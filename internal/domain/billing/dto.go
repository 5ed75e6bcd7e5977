package billing

import (
	"github.com/shopspring/decimal"

	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/validator"
)

type CreateAllocationRuleRequest struct {
	JobID         string            `json:"job_id"`
	AssetID       string            `json:"asset_id,omitempty"`
	AssetCategory string            `json:"asset_category,omitempty"`
	Splits        []AllocationSplit `json:"splits"`
}

func (r *CreateAllocationRuleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.JobID) {
		errs = append(errs, validator.ValidationError{
			Field:   "job_id",
			Message: "job_id is required",
		})
	}

	hasAsset := !validator.IsEmpty(r.AssetID)
	hasCategory := !validator.IsEmpty(r.AssetCategory)
	if hasAsset == hasCategory {
		errs = append(errs, validator.ValidationError{
			Field:   "asset_id",
			Message: "exactly one of asset_id or asset_category is required",
		})
	}

	if len(r.Splits) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "splits",
			Message: "at least one split is required",
		})
	}

	sum := decimal.Zero
	for _, split := range r.Splits {
		if validator.IsEmpty(split.CostCode) {
			errs = append(errs, validator.ValidationError{
				Field:   "splits",
				Message: "every split needs a cost_code",
			})
			break
		}
		if split.Percentage.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "splits",
				Message: "percentages must not be negative",
			})
			break
		}
		sum = sum.Add(split.Percentage)
	}

	// A rule that does not sum to 100 must never reach live allocation.
	if len(r.Splits) > 0 && !sum.Equal(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{
			Field:   "splits",
			Message: "percentages must sum to exactly 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToRule converts a validated request into the domain entity.
func (r *CreateAllocationRuleRequest) ToRule() AllocationRule {
	return AllocationRule{
		JobID:         r.JobID,
		AssetID:       r.AssetID,
		AssetCategory: r.AssetCategory,
		Splits:        r.Splits,
	}
}

type AllocationRuleResponse struct {
	ID            string            `json:"id"`
	JobID         string            `json:"job_id"`
	AssetID       string            `json:"asset_id,omitempty"`
	AssetCategory string            `json:"asset_category,omitempty"`
	Splits        []AllocationSplit `json:"splits"`
	CreatedAt     string            `json:"created_at"`
}

// ToRuleResponse maps the entity into its transport shape.
func ToRuleResponse(rule AllocationRule) AllocationRuleResponse {
	return AllocationRuleResponse{
		ID:            rule.ID,
		JobID:         rule.JobID,
		AssetID:       rule.AssetID,
		AssetCategory: rule.AssetCategory,
		Splits:        rule.Splits,
		CreatedAt:     rule.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

type AllocationLineItemResponse struct {
	ID                  string          `json:"id"`
	SourceUsageRecordID string          `json:"source_usage_record_id"`
	CostCode            string          `json:"cost_code"`
	Amount              decimal.Decimal `json:"amount"`
	PercentageApplied   decimal.Decimal `json:"percentage_applied"`
}

// ToLineItemResponse maps the entity into its transport shape.
func ToLineItemResponse(item AllocationLineItem) AllocationLineItemResponse {
	return AllocationLineItemResponse{
		ID:                  item.ID,
		SourceUsageRecordID: item.SourceUsageRecordID,
		CostCode:            item.CostCode,
		Amount:              item.Amount,
		PercentageApplied:   item.PercentageApplied,
	}
}

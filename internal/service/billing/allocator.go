package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
)

// Allocator splits billable usage amounts across cost codes according to a
// validated rule set.
type Allocator struct {
	rules *RuleSet
}

func NewAllocator(rules *RuleSet) *Allocator {
	return &Allocator{rules: rules}
}

// Allocate splits the record's amount across the cost codes of the matching
// rule. Each line amount is the cent-floored share; the rounding residual
// is folded into the last line in rule order, so the emitted amounts always
// sum exactly to the input amount. With no matching rule the full amount
// goes to the record's own cost code.
func (a *Allocator) Allocate(usage billing.UsageRecord) []billing.AllocationLineItem {
	rule, ok := a.rules.Resolve(usage.JobID, usage.AssetID, usage.AssetCategory)
	if !ok {
		return []billing.AllocationLineItem{{
			ID:                  uuid.NewString(),
			SourceUsageRecordID: usage.ID,
			CostCode:            usage.CostCode,
			Amount:              usage.Amount,
			PercentageApplied:   hundred,
		}}
	}

	items := make([]billing.AllocationLineItem, len(rule.Splits))
	allocated := decimal.Zero
	for i, split := range rule.Splits {
		amount := usage.Amount.Mul(split.Percentage).Div(hundred).RoundDown(2)
		allocated = allocated.Add(amount)
		items[i] = billing.AllocationLineItem{
			ID:                  uuid.NewString(),
			SourceUsageRecordID: usage.ID,
			CostCode:            split.CostCode,
			Amount:              amount,
			PercentageApplied:   split.Percentage,
		}
	}

	// Whatever flooring shaved off goes to the last line. Rule order is
	// fixed, so the tie-break is deterministic.
	if residual := usage.Amount.Sub(allocated); !residual.IsZero() {
		last := len(items) - 1
		items[last].Amount = items[last].Amount.Add(residual)
	}

	return items
}

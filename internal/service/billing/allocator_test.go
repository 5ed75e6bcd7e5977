package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
)

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func usage(jobID, assetID, category, costCode, amount string) billing.UsageRecord {
	return billing.UsageRecord{
		ID:            "u1",
		JobID:         jobID,
		AssetID:       assetID,
		AssetCategory: category,
		CostCode:      costCode,
		Amount:        money(amount),
		Date:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func splits(pairs ...string) []billing.AllocationSplit {
	out := make([]billing.AllocationSplit, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, billing.AllocationSplit{
			CostCode:   pairs[i],
			Percentage: money(pairs[i+1]),
		})
	}
	return out
}

func sumAmounts(items []billing.AllocationLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

func TestAllocate_EvenSplit(t *testing.T) {
	t.Parallel()
	rules, issues := NewRuleSet([]billing.AllocationRule{{
		ID:      "rule1",
		JobID:   "JOB-7",
		AssetID: "ET-32",
		Splits:  splits("CC-100", "50", "CC-200", "30", "CC-300", "20"),
	}})
	require.Empty(t, issues)

	items := NewAllocator(rules).Allocate(usage("JOB-7", "ET-32", "", "CC-DEF", "1000.00"))

	require.Len(t, items, 3)
	assert.True(t, items[0].Amount.Equal(money("500.00")), "got %s", items[0].Amount)
	assert.True(t, items[1].Amount.Equal(money("300.00")), "got %s", items[1].Amount)
	assert.True(t, items[2].Amount.Equal(money("200.00")), "got %s", items[2].Amount)
	assert.Equal(t, "CC-100", items[0].CostCode)
	assert.Equal(t, "CC-200", items[1].CostCode)
	assert.Equal(t, "CC-300", items[2].CostCode)
}

func TestAllocate_ResidualGoesToLastLine(t *testing.T) {
	t.Parallel()
	rules, issues := NewRuleSet([]billing.AllocationRule{{
		ID:      "rule1",
		JobID:   "JOB-7",
		AssetID: "ET-32",
		Splits:  splits("CC-100", "33.33", "CC-200", "33.33", "CC-300", "33.34"),
	}})
	require.Empty(t, issues)

	items := NewAllocator(rules).Allocate(usage("JOB-7", "ET-32", "", "CC-DEF", "100.00"))

	require.Len(t, items, 3)
	// Floors are 33.33 / 33.33 / 33.34; they already land exactly.
	assert.True(t, sumAmounts(items).Equal(money("100.00")))

	items = NewAllocator(rules).Allocate(usage("JOB-7", "ET-32", "", "CC-DEF", "0.10"))

	// 0.0333 floors to 0.03 twice, 0.0334 floors to 0.03; the missing cent
	// lands on the last line.
	require.Len(t, items, 3)
	assert.True(t, items[0].Amount.Equal(money("0.03")), "got %s", items[0].Amount)
	assert.True(t, items[1].Amount.Equal(money("0.03")), "got %s", items[1].Amount)
	assert.True(t, items[2].Amount.Equal(money("0.04")), "got %s", items[2].Amount)
	assert.True(t, sumAmounts(items).Equal(money("0.10")))
}

func TestAllocate_SumIsExactAcrossAwkwardAmounts(t *testing.T) {
	t.Parallel()
	rules, issues := NewRuleSet([]billing.AllocationRule{{
		ID:      "rule1",
		JobID:   "JOB-7",
		AssetID: "ET-32",
		Splits:  splits("CC-100", "33.33", "CC-200", "33.33", "CC-300", "33.34"),
	}})
	require.Empty(t, issues)
	allocator := NewAllocator(rules)

	for _, amount := range []string{"0.01", "0.02", "999.99", "1000.01", "12345.67"} {
		items := allocator.Allocate(usage("JOB-7", "ET-32", "", "CC-DEF", amount))
		assert.True(t, sumAmounts(items).Equal(money(amount)),
			"amount %s: lines sum to %s", amount, sumAmounts(items))
	}
}

func TestAllocate_NoRuleFallsBackToRecordCostCode(t *testing.T) {
	t.Parallel()
	rules, _ := NewRuleSet(nil)

	items := NewAllocator(rules).Allocate(usage("JOB-7", "ET-32", "", "CC-DEF", "250.00"))

	require.Len(t, items, 1)
	assert.Equal(t, "CC-DEF", items[0].CostCode)
	assert.True(t, items[0].Amount.Equal(money("250.00")))
	assert.True(t, items[0].PercentageApplied.Equal(money("100")))
}

func TestAllocate_AssetRuleBeatsCategoryRule(t *testing.T) {
	t.Parallel()
	rules, issues := NewRuleSet([]billing.AllocationRule{
		{
			ID:            "cat",
			JobID:         "JOB-7",
			AssetCategory: "excavator",
			Splits:        splits("CC-CAT", "100"),
		},
		{
			ID:      "asset",
			JobID:   "JOB-7",
			AssetID: "ET-32",
			Splits:  splits("CC-ASSET", "100"),
		},
	})
	require.Empty(t, issues)
	allocator := NewAllocator(rules)

	items := allocator.Allocate(usage("JOB-7", "ET-32", "excavator", "CC-DEF", "100.00"))
	require.Len(t, items, 1)
	assert.Equal(t, "CC-ASSET", items[0].CostCode)

	// A different asset in the same category falls through to the category rule.
	items = allocator.Allocate(usage("JOB-7", "ET-99", "excavator", "CC-DEF", "100.00"))
	require.Len(t, items, 1)
	assert.Equal(t, "CC-CAT", items[0].CostCode)
}

func TestAllocate_ZeroPercentSplitEmitsZeroLine(t *testing.T) {
	t.Parallel()
	rules, issues := NewRuleSet([]billing.AllocationRule{{
		ID:      "rule1",
		JobID:   "JOB-7",
		AssetID: "ET-32",
		Splits:  splits("CC-100", "100", "CC-200", "0"),
	}})
	require.Empty(t, issues)

	items := NewAllocator(rules).Allocate(usage("JOB-7", "ET-32", "", "CC-DEF", "80.00"))

	require.Len(t, items, 2)
	assert.True(t, items[0].Amount.Equal(money("80.00")))
	assert.True(t, items[1].Amount.IsZero())
}

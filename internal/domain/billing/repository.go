package billing

import "context"

// AllocationRuleRepository defines data access for allocation rules. Rules
// are accounting configuration; the allocator only reads them.
type AllocationRuleRepository interface {
	// GetAll retrieves every configured rule in creation order.
	GetAll(ctx context.Context) ([]AllocationRule, error)

	// Create stores a new rule.
	Create(ctx context.Context, rule AllocationRule) (AllocationRule, error)
}

package billing

import "context"

type BillingService interface {
	ListRules(ctx context.Context) ([]AllocationRuleResponse, error)
	CreateRule(ctx context.Context, req CreateAllocationRuleRequest) (AllocationRuleResponse, error)
}

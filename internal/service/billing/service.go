package billing

import (
	"context"
	"fmt"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
)

type BillingServiceImpl struct {
	ruleRepo billing.AllocationRuleRepository
}

func NewBillingService(ruleRepo billing.AllocationRuleRepository) billing.BillingService {
	return &BillingServiceImpl{
		ruleRepo: ruleRepo,
	}
}

// ListRules implements billing.BillingService.
func (s *BillingServiceImpl) ListRules(ctx context.Context) ([]billing.AllocationRuleResponse, error) {
	rules, err := s.ruleRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocation rules: %w", err)
	}

	responses := make([]billing.AllocationRuleResponse, 0, len(rules))
	for _, rule := range rules {
		responses = append(responses, billing.ToRuleResponse(rule))
	}

	return responses, nil
}

// CreateRule implements billing.BillingService. Rules are validated up front
// so a malformed percentage set never reaches live allocation.
func (s *BillingServiceImpl) CreateRule(ctx context.Context, req billing.CreateAllocationRuleRequest) (billing.AllocationRuleResponse, error) {
	if err := req.Validate(); err != nil {
		return billing.AllocationRuleResponse{}, err
	}

	created, err := s.ruleRepo.Create(ctx, req.ToRule())
	if err != nil {
		return billing.AllocationRuleResponse{}, fmt.Errorf("failed to create allocation rule: %w", err)
	}

	return billing.ToRuleResponse(created), nil
}

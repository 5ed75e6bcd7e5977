package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/pkg/database"
)

type allocationRuleRepository struct {
	db *database.DB
}

func NewAllocationRuleRepository(db *database.DB) billing.AllocationRuleRepository {
	return &allocationRuleRepository{db: db}
}

// GetAll implements billing.AllocationRuleRepository.
func (r *allocationRuleRepository) GetAll(ctx context.Context) ([]billing.AllocationRule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, job_id, asset_id, asset_category, splits, created_at, updated_at
		FROM allocation_rules
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation rules: %w", err)
	}
	defer rows.Close()

	var rules []billing.AllocationRule
	for rows.Next() {
		var (
			rule       billing.AllocationRule
			splitsJSON []byte
		)
		if err := rows.Scan(
			&rule.ID, &rule.JobID, &rule.AssetID, &rule.AssetCategory,
			&splitsJSON, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation rule: %w", err)
		}
		if err := json.Unmarshal(splitsJSON, &rule.Splits); err != nil {
			return nil, fmt.Errorf("failed to decode splits for rule %s: %w", rule.ID, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read allocation rules: %w", err)
	}

	return rules, nil
}

// Create implements billing.AllocationRuleRepository.
func (r *allocationRuleRepository) Create(ctx context.Context, rule billing.AllocationRule) (billing.AllocationRule, error) {
	q := GetQuerier(ctx, r.db)

	splitsJSON, err := json.Marshal(rule.Splits)
	if err != nil {
		return billing.AllocationRule{}, fmt.Errorf("failed to encode splits: %w", err)
	}

	query := `
		INSERT INTO allocation_rules (
			id, job_id, asset_id, asset_category, splits
		) VALUES (
			gen_random_uuid(), $1, $2, $3, $4
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		rule.JobID,
		rule.AssetID,
		rule.AssetCategory,
		splitsJSON,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)

	if err != nil {
		return billing.AllocationRule{}, fmt.Errorf("failed to create allocation rule: %w", err)
	}

	return rule, nil
}

package billing

import "errors"

// Billing domain errors
var (
	ErrMissingRuleTarget  = errors.New("allocation rule needs an asset id or an asset category")
	ErrEmptySplits        = errors.New("allocation rule has no splits")
	ErrNegativePercentage = errors.New("allocation rule has a negative percentage")
	ErrInvalidPercentages = errors.New("allocation rule percentages must sum to exactly 100")
)

package http

import (
	"encoding/json"
	"net/http"

	"github.com/groundworks-ops/fleetrecon-go/internal/domain/billing"
	"github.com/groundworks-ops/fleetrecon-go/internal/handler/http/response"
)

type BillingHandler interface {
	ListRules(w http.ResponseWriter, r *http.Request)
	CreateRule(w http.ResponseWriter, r *http.Request)
}

type BillingHandlerImpl struct {
	billingService billing.BillingService
}

func NewBillingHandler(billingService billing.BillingService) BillingHandler {
	return &BillingHandlerImpl{
		billingService: billingService,
	}
}

func (h *BillingHandlerImpl) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.billingService.ListRules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rules)
}

func (h *BillingHandlerImpl) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req billing.CreateAllocationRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	created, err := h.billingService.CreateRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Allocation rule created", created)
}

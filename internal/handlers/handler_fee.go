package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sidibemd/mobile_money_app/internal/core/domain"
	portssvc "github.com/sidibemd/mobile_money_app/internal/core/ports/services"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// feeHandler handles HTTP requests for the fee schedule.
type feeHandler struct {
	feeService portssvc.FeeSvcFacade
}

func newFeeHandler(fs portssvc.FeeSvcFacade) *feeHandler {
	return &feeHandler{feeService: fs}
}

// registerFeeRoutes registers fee schedule administration and quoting.
func registerFeeRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := newFeeHandler(feeService)

	fees := rg.Group("/fees")
	{
		fees.POST("/rules", h.createRule)
		fees.GET("/rules", h.listRules)
		fees.GET("/quote", h.quote)
	}
}

func (h *feeHandler) createRule(c *gin.Context) {
	var req dto.CreateFeeRuleRequest
	if !bindJSON(c, &req, "CreateFeeRule") {
		return
	}
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	rule, err := h.feeService.CreateRule(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to create fee rule")
		return
	}
	c.JSON(http.StatusCreated, dto.ToFeeRuleResponse(rule))
}

func (h *feeHandler) listRules(c *gin.Context) {
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	rules, err := h.feeService.ListRules(c.Request.Context(), tn)
	if err != nil {
		respondError(c, err, "Failed to list fee rules")
		return
	}
	c.JSON(http.StatusOK, dto.ToFeeRuleResponses(rules))
}

// quote answers GET /fees/quote?type=transfer&amount=100.
func (h *feeHandler) quote(c *gin.Context) {
	transactionType := domain.TransactionType(c.Query("type"))
	switch transactionType {
	case domain.TypeTransfer, domain.TypeWithdrawal, domain.TypeDeposit, domain.TypePaiement:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'type' query parameter"})
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'amount' query parameter"})
		return
	}

	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	quote, err := h.feeService.Quote(c.Request.Context(), tn, transactionType, amount)
	if err != nil {
		respondError(c, err, "Failed to quote fee")
		return
	}
	c.JSON(http.StatusOK, quote)
}

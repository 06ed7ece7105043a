package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sidibemd/mobile_money_app/internal/core/ports/services"
	"github.com/sidibemd/mobile_money_app/internal/dto"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
)

// transactionHandler handles HTTP requests for the money movement engine.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{transactionService: ts}
}

// registerTransactionRoutes registers the engine operations.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := newTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/transfer", h.transfer)
		transactions.POST("/withdrawal", h.withdraw)
		transactions.POST("/merchant-withdrawal", h.withdrawMerchant)
		transactions.POST("/merchant-payment", h.payMerchant)
		transactions.POST("/deposit", h.deposit)
		transactions.POST("/recharge", h.rechargeAgency)
	}
}

func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tn, ok := mustTenant(c)
	if !ok {
		return
	}

	res, err := h.transactionService.Transfer(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to execute transfer")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *transactionHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdraw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tn, ok := mustTenant(c)
	if !ok {
		return
	}

	res, err := h.transactionService.Withdraw(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to execute withdrawal")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *transactionHandler) withdrawMerchant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MerchantWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MerchantWithdrawal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tn, ok := mustTenant(c)
	if !ok {
		return
	}

	res, err := h.transactionService.WithdrawMerchant(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to execute merchant withdrawal")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *transactionHandler) payMerchant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.MerchantPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for MerchantPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tn, ok := mustTenant(c)
	if !ok {
		return
	}

	res, err := h.transactionService.PayMerchant(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to execute merchant payment")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *transactionHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Deposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tn, ok := mustTenant(c)
	if !ok {
		return
	}

	res, err := h.transactionService.Deposit(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to execute deposit")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *transactionHandler) rechargeAgency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Recharge", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	tn, ok := mustTenant(c)
	if !ok {
		return
	}

	res, err := h.transactionService.RechargeAgency(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to execute agency recharge")
		return
	}
	c.JSON(http.StatusCreated, res)
}

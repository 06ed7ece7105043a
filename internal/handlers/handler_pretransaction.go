package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sidibemd/mobile_money_app/internal/core/ports/services"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// preTransactionHandler handles HTTP requests for the reservation ledger.
type preTransactionHandler struct {
	preTransactionService portssvc.PreTransactionSvcFacade
}

func newPreTransactionHandler(ps portssvc.PreTransactionSvcFacade) *preTransactionHandler {
	return &preTransactionHandler{preTransactionService: ps}
}

// registerPreTransactionRoutes registers routes related to reservations.
func registerPreTransactionRoutes(rg *gin.RouterGroup, preTransactionService portssvc.PreTransactionSvcFacade) {
	h := newPreTransactionHandler(preTransactionService)

	preTransactions := rg.Group("/pre-transactions")
	{
		preTransactions.POST("", h.create)
		preTransactions.POST("/retrieve", h.retrieve)
		preTransactions.DELETE("/:code", h.cancel)
	}
}

func (h *preTransactionHandler) create(c *gin.Context) {
	var req dto.CreatePreTransactionRequest
	if !bindJSON(c, &req, "CreatePreTransaction") {
		return
	}
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	res, err := h.preTransactionService.CreatePreTransaction(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to create pre-transaction")
		return
	}
	c.JSON(http.StatusCreated, res)
}

// retrieve is a POST so the code never appears in access logs or URLs.
func (h *preTransactionHandler) retrieve(c *gin.Context) {
	var req dto.RetrievePreTransactionRequest
	if !bindJSON(c, &req, "RetrievePreTransaction") {
		return
	}
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	res, err := h.preTransactionService.RetrievePreTransaction(c.Request.Context(), tn, req.ClientPhone, req.Code)
	if err != nil {
		respondError(c, err, "Failed to retrieve pre-transaction")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *preTransactionHandler) cancel(c *gin.Context) {
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	if err := h.preTransactionService.CancelPreTransaction(c.Request.Context(), tn, c.Param("code")); err != nil {
		respondError(c, err, "Failed to cancel pre-transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sidibemd/mobile_money_app/internal/core/ports/services"
	"github.com/sidibemd/mobile_money_app/internal/dto"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
)

// accountHandler handles HTTP requests for account provisioning, KYC status
// and statements.
type accountHandler struct {
	accountService   portssvc.AccountSvcFacade
	statementService portssvc.StatementSvcFacade
}

func newAccountHandler(as portssvc.AccountSvcFacade, ss portssvc.StatementSvcFacade) *accountHandler {
	return &accountHandler{accountService: as, statementService: ss}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, statementService portssvc.StatementSvcFacade) {
	h := newAccountHandler(accountService, statementService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("/personal", h.createPersonal)
		accounts.POST("/business", h.createBusiness)
		accounts.POST("/agency", h.createAgency)
		accounts.POST("/internal", h.createInternal)
		accounts.GET("/:id", h.getAccount)
		accounts.POST("/:id/validate", h.validate)
		accounts.POST("/:id/block", h.block)
		accounts.POST("/:id/unblock", h.unblock)
		accounts.GET("/:id/statement", h.statement)
	}
}

func (h *accountHandler) createPersonal(c *gin.Context) {
	var req dto.CreatePersonalAccountRequest
	if !bindJSON(c, &req, "CreatePersonalAccount") {
		return
	}
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	account, err := h.accountService.CreatePersonalAccount(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to create personal account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) createBusiness(c *gin.Context) {
	var req dto.CreateBusinessAccountRequest
	if !bindJSON(c, &req, "CreateBusinessAccount") {
		return
	}
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	account, err := h.accountService.CreateBusinessAccount(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to create business account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) createAgency(c *gin.Context) {
	var req dto.CreateAgencyAccountRequest
	if !bindJSON(c, &req, "CreateAgencyAccount") {
		return
	}
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	account, err := h.accountService.CreateAgencyAccount(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to create agency account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) createInternal(c *gin.Context) {
	var req dto.CreateInternalAccountRequest
	if !bindJSON(c, &req, "CreateInternalAccount") {
		return
	}
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	account, err := h.accountService.CreateInternalAccount(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to create internal account")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	account, err := h.accountService.GetAccount(c.Request.Context(), tn, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) validate(c *gin.Context) {
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	res, err := h.accountService.ValidateAccount(c.Request.Context(), tn, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to validate account")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *accountHandler) block(c *gin.Context) {
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	res, err := h.accountService.BlockAccount(c.Request.Context(), tn, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to block account")
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *accountHandler) unblock(c *gin.Context) {
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	res, err := h.accountService.UnblockAccount(c.Request.Context(), tn, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to unblock account")
		return
	}
	c.JSON(http.StatusOK, res)
}

// statement supports from/to (RFC 3339), limit and next_token query params.
func (h *accountHandler) statement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tn, ok := mustTenant(c)
	if !ok {
		return
	}

	params := dto.StatementParams{}
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			logger.Warn("Invalid 'from' query parameter", slog.String("value", fromStr))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' date, expected RFC 3339"})
			return
		}
		params.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			logger.Warn("Invalid 'to' query parameter", slog.String("value", toStr))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' date, expected RFC 3339"})
			return
		}
		params.To = to
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit', expected an integer"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("next_token"); token != "" {
		params.NextToken = &token
	}

	res, err := h.statementService.GetAccountStatement(c.Request.Context(), tn, c.Param("id"), params)
	if err != nil {
		respondError(c, err, "Failed to retrieve statement")
		return
	}
	c.JSON(http.StatusOK, res)
}

// bindJSON binds the request body and reports failures uniformly.
func bindJSON(c *gin.Context, req any, action string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind JSON for "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}

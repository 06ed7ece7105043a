package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sidibemd/mobile_money_app/internal/core/ports/repositories"
	"github.com/sidibemd/mobile_money_app/internal/platform/tenant"
)

// tenantKey is the key used to store the resolved tenant handle in the Gin
// context.
const tenantKey = contextKey("tenant")

// BankCodeHeader carries the partner bank code that selects the tenant
// database for the request.
const BankCodeHeader = "X-Bank-Code"

// TenantResolver creates a Gin middleware that resolves the bank code header
// against the registry and stores the tenant handle in the context. Requests
// naming an unknown bank are rejected before reaching any handler.
func TenantResolver(registry *tenant.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		bankCode := c.GetHeader(BankCodeHeader)
		if bankCode == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + BankCodeHeader + " header"})
			return
		}

		tn, ok := registry.Resolve(bankCode)
		if !ok {
			GetLoggerFromContext(c).Warn("Unknown bank code", slog.String("bank_code", bankCode))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "bank not found"})
			return
		}

		c.Set(string(tenantKey), tn)
		c.Next()
	}
}

// GetTenantFromContext retrieves the resolved tenant handle from the Gin
// context. It returns false when the resolver middleware did not run.
func GetTenantFromContext(c *gin.Context) (repositories.Tenant, bool) {
	val, exists := c.Get(string(tenantKey))
	if !exists {
		return nil, false
	}
	tn, ok := val.(repositories.Tenant)
	return tn, ok
}

package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/sidibemd/mobile_money_app/internal/core/ports/services"
	"github.com/sidibemd/mobile_money_app/internal/middleware"
	"github.com/sidibemd/mobile_money_app/internal/platform/tenant"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	registry *tenant.Registry,
) {
	registerCustomValidators()

	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services, registry)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations. Every route in the group is tenant-scoped: the
// X-Bank-Code header picks the partner bank whose database serves the request.
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	registry *tenant.Registry,
) {
	v1 := r.Group("/api/v1", middleware.TenantResolver(registry))

	registerUserRoutes(v1, services.User)
	registerAccountRoutes(v1, services.Account, services.Statement)
	registerTransactionRoutes(v1, services.Transaction)
	registerPreTransactionRoutes(v1, services.PreTransaction)
	registerFeeRoutes(v1, services.Fee)
}

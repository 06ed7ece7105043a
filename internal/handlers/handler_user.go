package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sidibemd/mobile_money_app/internal/core/ports/services"
	"github.com/sidibemd/mobile_money_app/internal/dto"
)

// userHandler handles HTTP requests for the user directory.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes related to users.
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.POST("/register", h.register)
		users.GET("/:id", h.getUser)
		users.GET("/by-phone/:phone", h.getUserByPhone)
	}
}

func (h *userHandler) register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if !bindJSON(c, &req, "RegisterUser") {
		return
	}
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	res, err := h.userService.RegisterUser(c.Request.Context(), tn, req)
	if err != nil {
		respondError(c, err, "Failed to register user")
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *userHandler) getUser(c *gin.Context) {
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUser(c.Request.Context(), tn, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *userHandler) getUserByPhone(c *gin.Context) {
	tn, ok := mustTenant(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByPhone(c.Request.Context(), tn, c.Param("phone"))
	if err != nil {
		respondError(c, err, "Failed to retrieve user")
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

package api

import (
	"net/http"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type SaveUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	PhotoURL string `json:"photoURL"`
}

type RoleResponse struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// SaveUser godoc
// @Summary Record a user on first sign-in
// @Description Idempotent by email. New users are always members.
// @Tags Users
// @Accept json
// @Produce json
// @Param user body SaveUserRequest true "User"
// @Success 200 {object} InsertAck
// @Router /users [post]
func (h *UserHandler) SaveUser(c *gin.Context) {
	var req SaveUserRequest
	if !bindJSON(c, &req) {
		return
	}

	id, created, err := h.userService.EnsureUser(c.Request.Context(), &domain.User{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"status": "user already exists"})
		return
	}
	inserted(c, id)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetRole returns the stored role for an email.
func (h *UserHandler) GetRole(c *gin.Context) {
	email := c.Param("email")
	role, err := h.userService.RoleOf(c.Request.Context(), email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RoleResponse{Email: email, Role: role})
}

func (h *UserHandler) MakeAdmin(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	result, err := h.userService.MakeAdmin(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UpdateAck{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	})
}

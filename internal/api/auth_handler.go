package api

import (
	"net/http"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues bearer tokens.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type TokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// IssueToken godoc
// @Summary Exchange a signed-in identity for an API token
// @Description The identity provider has already authenticated the caller; the token carries email and name only.
// @Tags Auth
// @Accept json
// @Produce json
// @Param identity body TokenRequest true "Identity"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 429 {object} gin.H "Too many requests"
// @Router /jwt [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.IssueToken(domain.Identity{Email: req.Email, Name: req.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

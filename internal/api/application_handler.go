package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ApplicationHandler serves the become-a-trainer workflow.
type ApplicationHandler struct {
	applicationService service.ApplicationService
}

func NewApplicationHandler(applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// PromoteRequest is the optional body of a promotion. Salary falls back to
// the configured default.
type PromoteRequest struct {
	Salary *float64 `json:"salary"`
}

type PromoteResponse struct {
	Message string          `json:"message"`
	Trainer *domain.Trainer `json:"trainer"`
}

// Submit godoc
// @Summary Apply to become a trainer
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param application body domain.TrainerProfile true "Trainer profile"
// @Success 200 {object} InsertAck
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Email does not match the token"
// @Failure 409 {object} gin.H "Already a trainer or already applied"
// @Router /trainer-applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var profile domain.TrainerProfile
	if !bindJSON(c, &profile) {
		return
	}
	identity, err := identityFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}
	// An application always belongs to the caller.
	if email := strings.TrimSpace(profile.Email); email != "" && !strings.EqualFold(email, identity.Email) {
		abortWithError(c, http.StatusForbidden, "forbidden access")
		return
	}
	profile.Email = identity.Email
	if strings.TrimSpace(profile.Name) == "" {
		profile.Name = identity.Name
	}

	id, err := h.applicationService.Submit(c.Request.Context(), &domain.TrainerApplication{TrainerProfile: profile})
	if err != nil {
		respondError(c, err)
		return
	}
	inserted(c, id)
}

func (h *ApplicationHandler) ListPending(c *gin.Context) {
	apps, err := h.applicationService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

// Promote godoc
// @Summary Accept a pending application
// @Description Moves the application into trainers and makes the applicant a trainer, all or nothing.
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param terms body PromoteRequest false "Promotion terms"
// @Success 200 {object} PromoteResponse
// @Failure 403 {object} gin.H "Not an admin"
// @Failure 404 {object} gin.H "No pending application with that ID"
// @Router /trainer-applications/admin/{id} [patch]
func (h *ApplicationHandler) Promote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	trainer, err := h.applicationService.Promote(c.Request.Context(), id, req.Salary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PromoteResponse{
		Message: trainer.Name + " is now a trainer",
		Trainer: trainer,
	})
}

// Reject deletes a pending application.
func (h *ApplicationHandler) Reject(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.applicationService.Reject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": 1})
}

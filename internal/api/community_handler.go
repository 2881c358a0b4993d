package api

import (
	"net/http"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CommunityHandler serves reviews, newsletter subscriptions, forum posts,
// classes and packages.
type CommunityHandler struct {
	communityService service.CommunityService
}

func NewCommunityHandler(communityService service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

// --- DTOs ---

type ReviewRequest struct {
	Name     string  `json:"name"`
	PhotoURL string  `json:"photoURL"`
	Rating   float64 `json:"rating"`
	Comment  string  `json:"comment" binding:"required"`
}

type SubscribeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required,email"`
}

type ForumPostRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
	Image string `json:"image"`
}

type ClassRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	Duration      string   `json:"duration"`
	TrainerEmails []string `json:"trainerEmails"`
}

// --- Reviews ---

func (h *CommunityHandler) ListReviews(c *gin.Context) {
	reviews, err := h.communityService.ListReviews(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// AddReview stores a review written by the caller.
func (h *CommunityHandler) AddReview(c *gin.Context) {
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, err := identityFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = identity.Name
	}

	id, err := h.communityService.AddReview(c.Request.Context(), &domain.Review{
		Name:     name,
		Email:    identity.Email,
		PhotoURL: req.PhotoURL,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	inserted(c, id)
}

// --- Newsletter ---

func (h *CommunityHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.communityService.Subscribe(c.Request.Context(), &domain.Subscriber{Name: req.Name, Email: req.Email})
	if err != nil {
		respondError(c, err)
		return
	}
	inserted(c, id)
}

func (h *CommunityHandler) ListSubscribers(c *gin.Context) {
	subscribers, err := h.communityService.ListSubscribers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, subscribers)
}

// --- Forum ---

func (h *CommunityHandler) ListForumPosts(c *gin.Context) {
	posts, err := h.communityService.ListForumPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// CreateForumPost godoc
// @Summary Publish a forum post
// @Description The author and their role are taken from the caller.
// @Tags Forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body ForumPostRequest true "Post"
// @Success 200 {object} InsertAck
// @Failure 403 {object} gin.H "Not a trainer or admin"
// @Router /forums [post]
func (h *CommunityHandler) CreateForumPost(c *gin.Context) {
	var req ForumPostRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, err := identityFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := h.communityService.CreateForumPost(c.Request.Context(), &domain.ForumPost{
		Title:       req.Title,
		Body:        req.Body,
		Image:       req.Image,
		AuthorName:  identity.Name,
		AuthorEmail: identity.Email,
		AuthorRole:  roleFromContext(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	inserted(c, id)
}

// --- Classes ---

func (h *CommunityHandler) CreateClass(c *gin.Context) {
	var req ClassRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, err := identityFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := h.communityService.CreateClass(c.Request.Context(), &domain.Class{
		Name:          req.Name,
		Description:   req.Description,
		Image:         req.Image,
		Duration:      req.Duration,
		TrainerEmails: req.TrainerEmails,
		CreatedBy:     identity.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	inserted(c, id)
}

func (h *CommunityHandler) ListClasses(c *gin.Context) {
	classes, err := h.communityService.ListClasses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (h *CommunityHandler) GetClassDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	class, err := h.communityService.GetClass(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// --- Packages ---

func (h *CommunityHandler) ListPackages(c *gin.Context) {
	packages, err := h.communityService.ListPackages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, packages)
}

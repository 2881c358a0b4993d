package api

import (
	"net/http"
	"strconv"
	"strings"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerHandler serves trainer profiles, their slots and slot bookings.
type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type CreateBookingRequest struct {
	TrainerID     primitive.ObjectID `json:"trainerId"`
	TrainerName   string             `json:"trainerName"`
	TrainerEmail  string             `json:"trainerEmail"`
	MemberName    string             `json:"memberName"`
	MemberEmail   string             `json:"memberEmail"`
	Day           string             `json:"day"`
	SlotIndex     int                `json:"slotIndex"`
	Package       domain.PackageRef  `json:"package"`
	TransactionID string             `json:"transactionId"`
}

// --- Trainers ---

func (h *TrainerHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.trainerService.ListTrainers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}

// GetTrainerDetails godoc
// @Summary Get one trainer
// @Tags Trainers
// @Produce json
// @Param id path string true "Trainer ID"
// @Success 200 {object} domain.Trainer
// @Failure 404 {object} gin.H "Trainer not found"
// @Failure 500 {object} gin.H "Malformed ID or internal error"
// @Router /trainer-details/{id} [get]
func (h *TrainerHandler) GetTrainerDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	trainer, err := h.trainerService.GetTrainer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

// GetTimeSlot returns slot :index of the trainer's schedule for :day.
func (h *TrainerHandler) GetTimeSlot(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, service.ErrTimeSlotNotFound)
		return
	}

	slot, err := h.trainerService.GetTimeSlot(c.Request.Context(), id, c.Param("day"), index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

// --- Bookings ---

// CreateBooking godoc
// @Summary Book a trainer's slot
// @Description The member defaults to the caller. When trainerId is given the trainer and slot are taken from the stored profile.
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param booking body CreateBookingRequest true "Booking"
// @Success 200 {object} InsertAck
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Trainer or slot not found"
// @Router /trainer-bookings [post]
func (h *TrainerHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, err := identityFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	booking := &domain.Booking{
		MemberName:    req.MemberName,
		MemberEmail:   strings.TrimSpace(req.MemberEmail),
		TrainerID:     req.TrainerID,
		TrainerName:   req.TrainerName,
		TrainerEmail:  req.TrainerEmail,
		Day:           req.Day,
		SlotIndex:     req.SlotIndex,
		Package:       req.Package,
		TransactionID: req.TransactionID,
	}
	if booking.MemberEmail == "" {
		booking.MemberEmail = identity.Email
		if booking.MemberName == "" {
			booking.MemberName = identity.Name
		}
	}

	id, err := h.trainerService.CreateBooking(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}
	inserted(c, id)
}

func (h *TrainerHandler) ListBookings(c *gin.Context) {
	bookings, err := h.trainerService.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *TrainerHandler) BookingsForTrainer(c *gin.Context) {
	bookings, err := h.trainerService.BookingsForTrainer(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *TrainerHandler) BookingsForMember(c *gin.Context) {
	bookings, err := h.trainerService.BookingsForMember(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

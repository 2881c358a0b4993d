package api

import (
	"net/http"
	"syncfit/connect-api/internal/domain"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentHandler serves trainer salary payments.
type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type PaymentIntentRequest struct {
	Price     float64            `json:"price" binding:"required,gt=0"`
	TrainerID primitive.ObjectID `json:"trainerId"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	CheckoutURL  string `json:"checkoutUrl,omitempty"`
}

type TrainerPaymentRequest struct {
	TrainerID     primitive.ObjectID `json:"trainerId"`
	Amount        float64            `json:"amount" binding:"required,gt=0"`
	TransactionID string             `json:"transactionId"`
}

// CreatePaymentIntent godoc
// @Summary Open a checkout for a trainer salary
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param intent body PaymentIntentRequest true "Amount and optional trainer"
// @Success 200 {object} PaymentIntentResponse
// @Failure 502 {object} gin.H "Payment processor error"
// @Failure 503 {object} gin.H "Payments not configured"
// @Router /create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if !bindJSON(c, &req) {
		return
	}
	intent, err := h.paymentService.CreateIntent(c.Request.Context(), req.Price, req.TrainerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PaymentIntentResponse{
		ClientSecret: intent.ClientSecret,
		CheckoutURL:  intent.CheckoutURL,
	})
}

// PayTrainer records a completed salary payment.
func (h *PaymentHandler) PayTrainer(c *gin.Context) {
	var req TrainerPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.paymentService.PayTrainer(c.Request.Context(), &domain.Payment{
		TrainerID:     req.TrainerID,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	inserted(c, id)
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

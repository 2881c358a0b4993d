package api

import (
	"errors"
	"log"
	"net/http"
	"syncfit/connect-api/internal/payment"
	"syncfit/connect-api/internal/repository"
	"syncfit/connect-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const genericErrorMessage = "An unexpected error occurred"

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps service and repository errors to a status code. Only
// client-caused errors echo their message; everything else is logged and
// answered with a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error(), "message": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, repository.ErrInvalidID):
		// Malformed identifiers have always been a server error on this API.
		abortWithError(c, http.StatusInternalServerError, err.Error())
	case errors.Is(err, payment.ErrGateway):
		log.Printf("ERROR: [%s] %s %s: %v", requestID(c), c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusBadGateway, "Payment processor error")
	default:
		log.Printf("ERROR: [%s] %s %s: %v", requestID(c), c.Request.Method, c.FullPath(), err)
		abortWithError(c, http.StatusInternalServerError, genericErrorMessage)
	}
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// paramID parses the named path parameter as an ObjectID.
func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := repository.ParseID(c.Param(name))
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

// InsertAck is the acknowledgement returned for inserts.
type InsertAck struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// UpdateAck is the acknowledgement returned for updates.
type UpdateAck struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

func inserted(c *gin.Context, id primitive.ObjectID) {
	c.JSON(http.StatusOK, InsertAck{Acknowledged: true, InsertedID: id})
}

// Package handler maps the REST surface onto the matching services.
package handler

import (
	"errors"
	"net/http"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string     `json:"error"`
	Detail    string     `json:"detail,omitempty"`
	Op        string     `json:"op,omitempty"`
	RequestID *uuid.UUID `json:"request_id,omitempty"`
	OfferID   *uuid.UUID `json:"offer_id,omitempty"`
}

// PairInput names one request/offer pairing.
type PairInput struct {
	RequestID uuid.UUID `json:"request_id" binding:"required"`
	OfferID   uuid.UUID `json:"offer_id" binding:"required"`
}

func actorFrom(c *gin.Context) entity.Actor {
	return entity.Actor{
		UserID: c.MustGet("user_id").(uuid.UUID),
		Role:   c.MustGet("role_name").(string),
	}
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func bindPage(c *gin.Context) (entity.Page, bool) {
	var page entity.Page
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paging", "detail": err.Error()})
		return page, false
	}
	return page.Normalize(), true
}

// writeError translates service error kinds into status codes. Unexpected
// errors are attached to the context for the access log and reported
// without detail.
func writeError(c *gin.Context, err error) {
	var pf *service.PartialFailureError
	if errors.As(err, &pf) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:     "partial_failure",
			Detail:    "the pairing was left inconsistent and must be reconciled",
			Op:        pf.Op,
			RequestID: &pf.RequestID,
			OfferID:   &pf.OfferID,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrUnprocessable):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

package handler

import (
	"net/http"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/service"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchingService *service.MatchingService
}

func NewMatchHandler(matchingService *service.MatchingService) *MatchHandler {
	return &MatchHandler{matchingService: matchingService}
}

func bindPair(c *gin.Context) (PairInput, bool) {
	var input PairInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pairing", "detail": err.Error()})
		return input, false
	}
	return input, true
}

// ProposeMatch godoc
// @Summary      Propose a pairing between a request and an offer
// @Description  The caller must own one side. The allocation is min(request quantity, offer remaining).
// @Tags         matches
// @Accept       json
// @Produce      json
// @Param        body  body      PairInput  true  "pairing"
// @Success      201   {object}  service.MatchResult
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /matches [post]
func (h *MatchHandler) ProposeMatch(c *gin.Context) {
	input, ok := bindPair(c)
	if !ok {
		return
	}
	res, err := h.matchingService.Propose(c.Request.Context(), actorFrom(c), input.RequestID, input.OfferID, entity.OriginManual)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// AcceptMatch godoc
// @Summary   Requester accepts a pending pairing
// @Tags      matches
// @Accept    json
// @Produce   json
// @Param     body  body      PairInput  true  "pairing"
// @Success   200   {object}  service.MatchResult
// @Failure   409   {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /matches/accept [post]
func (h *MatchHandler) AcceptMatch(c *gin.Context) {
	input, ok := bindPair(c)
	if !ok {
		return
	}
	res, err := h.matchingService.Accept(c.Request.Context(), actorFrom(c), input.RequestID, input.OfferID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// RejectMatch godoc
// @Summary   Either party rejects a pending pairing
// @Tags      matches
// @Accept    json
// @Produce   json
// @Param     body  body      PairInput  true  "pairing"
// @Success   200   {object}  service.MatchResult
// @Failure   409   {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /matches/reject [post]
func (h *MatchHandler) RejectMatch(c *gin.Context) {
	input, ok := bindPair(c)
	if !ok {
		return
	}
	res, err := h.matchingService.Reject(c.Request.Context(), actorFrom(c), input.RequestID, input.OfferID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

package handler

import (
	"net/http"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"
	"relief-exchange/internal/service"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	offerService     *service.OfferService
	matchingService  *service.MatchingService
	candidateService *service.CandidateService
}

func NewOfferHandler(offerService *service.OfferService, matchingService *service.MatchingService, candidateService *service.CandidateService) *OfferHandler {
	return &OfferHandler{
		offerService:     offerService,
		matchingService:  matchingService,
		candidateService: candidateService,
	}
}

// RequestCandidate is a request hit with its distance from the offer.
type RequestCandidate struct {
	Request        *entity.ResourceRequest `json:"request"`
	DistanceMeters float64                 `json:"distanceMeters"`
}

// CreateOffer godoc
// @Summary      Publish a resource offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        body  body      entity.CreateOfferInput  true  "offer"
// @Success      201   {object}  entity.ResourceOffer
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /offers [post]
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	var input entity.CreateOfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer", "detail": err.Error()})
		return
	}

	offer, err := h.offerService.CreateOffer(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

// GetMyOffers godoc
// @Summary   List the caller's offers
// @Tags      offers
// @Produce   json
// @Success   200  {array}  entity.ResourceOffer
// @Security  BearerAuth
// @Router    /offers/my [get]
func (h *OfferHandler) GetMyOffers(c *gin.Context) {
	offers, err := h.offerService.GetMyOffers(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

// GetOffer godoc
// @Summary   Get one offer
// @Tags      offers
// @Produce   json
// @Param     id   path      string  true  "offer id"
// @Success   200  {object}  entity.ResourceOffer
// @Failure   404  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /offers/{id} [get]
func (h *OfferHandler) GetOffer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	offer, err := h.offerService.GetOffer(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// DeleteOffer godoc
// @Summary   Delete an offer without live pairings
// @Tags      offers
// @Param     id  path  string  true  "offer id"
// @Success   204
// @Failure   409  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /offers/{id} [delete]
func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.offerService.DeleteOffer(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCandidates godoc
// @Summary   Requests near an offer, nearest first
// @Tags      offers
// @Produce   json
// @Param     id      path   string  true   "offer id"
// @Param     limit   query  int     false  "page size"
// @Param     offset  query  int     false  "page offset"
// @Success   200  {array}   RequestCandidate
// @Failure   403  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /offers/{id}/candidates [get]
func (h *OfferHandler) GetCandidates(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	hits, err := h.candidateService.FindCandidatesForOffer(c.Request.Context(), actorFrom(c), id, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"candidates":    requestCandidates(hits),
		"radius_meters": h.candidateService.RadiusMeters(),
		"limit":         page.Limit,
		"offset":        page.Offset,
	})
}

// FulfillOffer godoc
// @Summary   Mark every accepted pairing of the offer delivered
// @Tags      offers
// @Produce   json
// @Param     id   path      string  true  "offer id"
// @Success   200  {object}  service.FulfillResult
// @Failure   409  {object}  ErrorResponse
// @Failure   422  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /offers/{id}/fulfill [post]
func (h *OfferHandler) FulfillOffer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.matchingService.Fulfill(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetHistory godoc
// @Summary   Pairing transitions of an offer
// @Tags      offers
// @Produce   json
// @Param     id   path     string  true  "offer id"
// @Success   200  {array}  entity.HistoryStatus
// @Security  BearerAuth
// @Router    /offers/{id}/history [get]
func (h *OfferHandler) GetHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	history, err := h.offerService.GetOfferHistory(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func requestCandidates(hits []repository.RequestHit) []RequestCandidate {
	out := make([]RequestCandidate, 0, len(hits))
	for _, h := range hits {
		out = append(out, RequestCandidate{Request: h.Request, DistanceMeters: h.DistanceMeters})
	}
	return out
}

package handler

import (
	"net/http"

	entity "relief-exchange/internal/domain"
	"relief-exchange/internal/repository"
	"relief-exchange/internal/service"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService   *service.RequestService
	matchingService  *service.MatchingService
	candidateService *service.CandidateService
}

func NewRequestHandler(requestService *service.RequestService, matchingService *service.MatchingService, candidateService *service.CandidateService) *RequestHandler {
	return &RequestHandler{
		requestService:   requestService,
		matchingService:  matchingService,
		candidateService: candidateService,
	}
}

// OfferCandidate is an offer hit with its distance from the request.
type OfferCandidate struct {
	Offer          *entity.ResourceOffer `json:"offer"`
	DistanceMeters float64               `json:"distanceMeters"`
}

// CreateRequest godoc
// @Summary      Submit a resource request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        body  body      entity.CreateRequestInput  true  "request"
// @Success      201   {object}  entity.ResourceRequest
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var input entity.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "detail": err.Error()})
		return
	}

	req, err := h.requestService.CreateRequest(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// GetMyRequests godoc
// @Summary   List the caller's requests
// @Tags      requests
// @Produce   json
// @Success   200  {array}  entity.ResourceRequest
// @Security  BearerAuth
// @Router    /requests/my [get]
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	reqs, err := h.requestService.GetMyRequests(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

// GetRequest godoc
// @Summary   Get one request
// @Tags      requests
// @Produce   json
// @Param     id   path      string  true  "request id"
// @Success   200  {object}  entity.ResourceRequest
// @Failure   404  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	req, err := h.requestService.GetRequest(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// CancelRequest godoc
// @Summary      Cancel a request and withdraw its pending pairings
// @Tags         requests
// @Produce      json
// @Param        id   path      string  true  "request id"
// @Success      200  {object}  service.CancelResult
// @Failure      409  {object}  ErrorResponse
// @Failure      422  {object}  ErrorResponse
// @Security     BearerAuth
// @Router       /requests/{id}/cancel [post]
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := h.matchingService.CancelRequest(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteRequest godoc
// @Summary   Delete a request without live pairings
// @Tags      requests
// @Param     id  path  string  true  "request id"
// @Success   204
// @Failure   409  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /requests/{id} [delete]
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.requestService.DeleteRequest(c.Request.Context(), actorFrom(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCandidates godoc
// @Summary   Offers near a request, nearest first
// @Tags      requests
// @Produce   json
// @Param     id      path   string  true   "request id"
// @Param     limit   query  int     false  "page size"
// @Param     offset  query  int     false  "page offset"
// @Success   200  {array}   OfferCandidate
// @Failure   403  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /requests/{id}/candidates [get]
func (h *RequestHandler) GetCandidates(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	hits, err := h.candidateService.FindCandidatesForRequest(c.Request.Context(), actorFrom(c), id, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"candidates":    offerCandidates(hits),
		"radius_meters": h.candidateService.RadiusMeters(),
		"limit":         page.Limit,
		"offset":        page.Offset,
	})
}

// GetHistory godoc
// @Summary   Pairing transitions of a request
// @Tags      requests
// @Produce   json
// @Param     id   path     string  true  "request id"
// @Success   200  {array}  entity.HistoryStatus
// @Security  BearerAuth
// @Router    /requests/{id}/history [get]
func (h *RequestHandler) GetHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	history, err := h.requestService.GetRequestHistory(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func offerCandidates(hits []repository.OfferHit) []OfferCandidate {
	out := make([]OfferCandidate, 0, len(hits))
	for _, h := range hits {
		out = append(out, OfferCandidate{Offer: h.Offer, DistanceMeters: h.DistanceMeters})
	}
	return out
}

package handler

import (
	"net/http"

	"relief-exchange/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operator repairs that reliefctl also runs.
type AdminHandler struct {
	reconcileService *service.ReconcileService
	offerService     *service.OfferService
}

func NewAdminHandler(reconcileService *service.ReconcileService, offerService *service.OfferService) *AdminHandler {
	return &AdminHandler{reconcileService: reconcileService, offerService: offerService}
}

// ReconcilePair godoc
// @Summary   Realign the offer side of a pairing with the request side
// @Tags      admin
// @Accept    json
// @Produce   json
// @Param     body  body      PairInput  true  "pairing"
// @Success   200   {object}  service.ReconcileReport
// @Security  BearerAuth
// @Router    /admin/reconcile [post]
func (h *AdminHandler) ReconcilePair(c *gin.Context) {
	input, ok := bindPair(c)
	if !ok {
		return
	}
	report, err := h.reconcileService.ReconcilePair(c.Request.Context(), input.RequestID, input.OfferID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExpireOffers godoc
// @Summary   Persist expiry for every offer whose window has closed
// @Tags      admin
// @Produce   json
// @Success   200  {object}  map[string]int
// @Security  BearerAuth
// @Router    /admin/expire [post]
func (h *AdminHandler) ExpireOffers(c *gin.Context) {
	n, err := h.offerService.ExpireOffers(c.Request.Context(), 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": n})
}

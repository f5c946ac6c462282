package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler reports the identity carried by the bearer token. Accounts
// and token issuance belong to the identity provider.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type ProfileResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// Profile godoc
// @Summary   Identity of the caller
// @Tags      auth
// @Produce   json
// @Success   200  {object}  ProfileResponse
// @Failure   401  {object}  ErrorResponse
// @Security  BearerAuth
// @Router    /auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	rawID, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	userID, ok := rawID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id in context"})
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{UserID: userID, Role: c.GetString("role_name")})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto_ramp_back/pkg/middleware"
)

// GetUser returns the authenticated user's profile row.
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.Authorization.GetUser(userID)
	if err != nil {
		abortWithErr(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

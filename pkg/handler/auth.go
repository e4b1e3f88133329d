package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto_ramp_back/models"
)

// Auth handles sign-up, sign-in and sign-out with an action field, matching
// the single-endpoint shape the frontend expects.
func (h *Handler) Auth(c *gin.Context) {
	var input models.AuthInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	switch input.Action {
	case "signUp":
		user, err := h.service.Authorization.SignUp(input.Email, input.Password)
		if err != nil {
			abortWithErr(c, err)
			return
		}
		wrapOkJSON(c, map[string]interface{}{"user": user})

	case "signIn":
		user, token, err := h.service.Authorization.SignIn(input.Email, input.Password)
		if err != nil {
			abortWithErr(c, err)
			return
		}
		wrapOkJSON(c, map[string]interface{}{"user": user, "token": token})

	case "signOut":
		// Tokens are stateless; the client drops its copy.
		wrapOkJSON(c, map[string]interface{}{"message": "Signed out"})

	default:
		newErrorResponse(c, http.StatusBadRequest, "Invalid action")
	}
}

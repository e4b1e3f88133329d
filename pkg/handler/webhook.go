package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crypto_ramp_back/pkg/provider"
)

type webhookPayload struct {
	TransactionID string `json:"transactionId" binding:"required"`
	Status        string `json:"status" binding:"required"`
}

var signatureHeaders = map[provider.Name]string{
	provider.Moonpay:  "X-Moonpay-Signature",
	provider.Onramper: "X-Onramper-Signature",
}

// ProviderWebhook accepts status pushes from the exchange providers.
// Only the presence of the signature header is checked; neither provider's
// signing scheme is verified here, so the poller remains the source of truth.
func (h *Handler) ProviderWebhook(c *gin.Context) {
	name, err := provider.ParseName(c.Param("provider"))
	if err != nil {
		newErrorResponse(c, http.StatusNotFound, "unknown provider")
		return
	}

	if c.GetHeader(signatureHeaders[name]) == "" {
		newErrorResponse(c, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var payload webhookPayload
	if err := c.BindJSON(&payload); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.Ramp.HandleWebhook(payload.TransactionID, payload.Status); err != nil {
		abortWithErr(c, err)
		return
	}
	wrapOkJSON(c, map[string]interface{}{"message": "Webhook processed"})
}

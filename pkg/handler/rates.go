package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"crypto_ramp_back/models"
)

// GetRate returns the spot price for ?from=SYMBOL in the platform fiat
// currency. The response shape is what the frontend pricing panel consumes.
func (h *Handler) GetRate(c *gin.Context) {
	from := c.DefaultQuery("from", "USDC")

	quote, err := h.service.Rates.GetRate(c.Request.Context(), from)
	if err != nil {
		status := http.StatusInternalServerError
		errName := "Failed to fetch rates"
		if errors.Is(err, models.ErrUnsupportedAsset) {
			status = http.StatusBadRequest
			errName = "Unsupported currency"
		}
		c.JSON(status, gin.H{
			"success":   false,
			"error":     errName,
			"message":   err.Error(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"rate":         quote.Rate,
		"fromCurrency": quote.Crypto,
		"toCurrency":   quote.Fiat,
		"timestamp":    quote.FetchedAt.Format(time.RFC3339),
		"source":       quote.Source,
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crypto_ramp_back/models"
)

// Static directory of Nigerian banks with their CBN codes; sell payouts are
// matched against it on the client.
var banks = []models.Bank{
	{ID: "044", Name: "Access Bank", Code: "044", Type: "commercial"},
	{ID: "058", Name: "Guaranty Trust Bank", Code: "058", Type: "commercial"},
	{ID: "011", Name: "First Bank of Nigeria", Code: "011", Type: "commercial"},
	{ID: "057", Name: "Zenith Bank", Code: "057", Type: "commercial"},
	{ID: "033", Name: "United Bank for Africa", Code: "033", Type: "commercial"},
	{ID: "070", Name: "Fidelity Bank", Code: "070", Type: "commercial"},
	{ID: "032", Name: "Union Bank of Nigeria", Code: "032", Type: "commercial"},
	{ID: "232", Name: "Sterling Bank", Code: "232", Type: "commercial"},
	{ID: "221", Name: "Stanbic IBTC Bank", Code: "221", Type: "commercial"},
	{ID: "214", Name: "First City Monument Bank", Code: "214", Type: "commercial"},
	{ID: "50515", Name: "Moniepoint MFB", Code: "50515", Type: "microfinance"},
	{ID: "50211", Name: "Kuda Bank", Code: "50211", Type: "digital"},
	{ID: "100004", Name: "Opay", Code: "100004", Type: "fintech"},
	{ID: "999991", Name: "PalmPay", Code: "999991", Type: "fintech"},
}

func (h *Handler) GetBanks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"banks":     banks,
		"count":     len(banks),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"source":    "static",
	})
}

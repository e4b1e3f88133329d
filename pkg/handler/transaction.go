package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"crypto_ramp_back/models"
	"crypto_ramp_back/pkg/middleware"
)

type createTransactionInput struct {
	Type string `json:"type" binding:"required"`

	// buy fields
	AmountFiat   float64 `json:"amount_fiat"`
	CurrencyFiat string  `json:"currency_fiat"`
	Provider     string  `json:"provider"`

	// sell fields
	AmountCrypto   float64 `json:"amount_crypto"`
	AccountNumber  string  `json:"account_number"`
	RoutingNumber  string  `json:"routing_number"`
	BlockchainHash string  `json:"blockchain_tx_hash"`

	CurrencyCrypto string `json:"currency_crypto" binding:"required"`
}

type updateTransactionInput struct {
	ID      uuid.UUID         `json:"id" binding:"required"`
	Updates map[string]string `json:"updates" binding:"required"`
}

func (h *Handler) GetTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	txs, err := h.service.Ramp.GetTransactions(userID)
	if err != nil {
		abortWithErr(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// CreateTransaction dispatches a buy or sell submission.
func (h *Handler) CreateTransaction(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input createTransactionInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	switch models.TransactionType(input.Type) {
	case models.TransactionBuy:
		tx, widgetURL, err := h.service.Ramp.InitiateBuy(c.Request.Context(), userID, models.InitiateBuyInput{
			AmountFiat:     input.AmountFiat,
			CurrencyFiat:   input.CurrencyFiat,
			CurrencyCrypto: input.CurrencyCrypto,
			Provider:       input.Provider,
		})
		if err != nil {
			abortWithErr(c, err)
			return
		}
		wrapOkJSON(c, map[string]interface{}{
			"transaction": tx,
			"widget_url":  widgetURL,
		})

	case models.TransactionSell:
		tx, depositAddress, err := h.service.Ramp.InitiateSell(c.Request.Context(), userID, models.InitiateSellInput{
			AmountCrypto:   input.AmountCrypto,
			CurrencyCrypto: input.CurrencyCrypto,
			AccountNumber:  input.AccountNumber,
			RoutingNumber:  input.RoutingNumber,
			BlockchainHash: input.BlockchainHash,
		})
		if err != nil {
			abortWithErr(c, err)
			return
		}
		wrapOkJSON(c, map[string]interface{}{
			"transaction":     tx,
			"deposit_address": depositAddress,
		})

	default:
		newErrorResponse(c, http.StatusBadRequest, "type must be buy or sell")
	}
}

// UpdateTransaction applies a status change, e.g. a user-initiated cancel.
func (h *Handler) UpdateTransaction(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input updateTransactionInput
	if err := c.BindJSON(&input); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	statusValue, ok := input.Updates["status"]
	if !ok {
		newErrorResponse(c, http.StatusBadRequest, "updates.status is required")
		return
	}

	tx, err := h.service.Ramp.UpdateStatus(userID, input.ID, models.TransactionStatus(statusValue))
	if err != nil {
		abortWithErr(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"crypto_ramp_back/models"
	"crypto_ramp_back/pkg/provider"
)

type Error struct {
	Message string `json:"error"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.Error(message)
	c.AbortWithStatusJSON(statusCode, Error{Message: message})
}

// abortWithErr maps the error taxonomy to HTTP codes. The user sees a stable
// message, never a stack trace.
func abortWithErr(c *gin.Context, err error) {
	var provErr *provider.Error
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, models.ErrNotFound):
		newErrorResponse(c, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrUnsupportedAsset), errors.Is(err, models.ErrInvalidInput):
		newErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrRateUnavailable), errors.Is(err, models.ErrQuoteUnavailable):
		newErrorResponse(c, http.StatusBadGateway, err.Error())
	case errors.As(err, &provErr):
		newErrorResponse(c, http.StatusBadGateway, provErr.Error())
	default:
		logrus.Errorf("unhandled error: %s", err)
		newErrorResponse(c, http.StatusInternalServerError, "something went wrong")
	}
}

func wrapOkJSON(c *gin.Context, response map[string]interface{}) {
	c.JSON(http.StatusOK, response)
}

package handler

import (
	"crypto_ramp_back/pkg/middleware"
	"crypto_ramp_back/pkg/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service        *service.Service
	allowedOrigins []string
}

func NewHandler(service *service.Service, allowedOrigins []string) *Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	return &Handler{
		service:        service,
		allowedOrigins: allowedOrigins,
	}
}

func (h *Handler) InitRoute() *gin.Engine {
	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     h.allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.POST("/auth", h.Auth)

	api := router.Group("/api")
	{
		api.GET("/rates", h.GetRate)
		api.GET("/banks", h.GetBanks)
		api.GET("/user", middleware.AuthMiddleware(h.service.Authorization), h.GetUser)

		transactions := api.Group("/transactions", middleware.AuthMiddleware(h.service.Authorization))
		{
			transactions.GET("", h.GetTransactions)
			transactions.POST("", h.CreateTransaction)
			transactions.PATCH("", h.UpdateTransaction)
		}
	}

	webhooks := router.Group("/webhooks")
	{
		webhooks.POST("/:provider", h.ProviderWebhook)
	}

	return router
}

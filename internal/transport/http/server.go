package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"askdata/internal/bootstrap"
	"askdata/internal/transport/http/handler"
	"askdata/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())
	router.Use(cors.New(corsConfig(app.Config.CORS.AllowOrigins)))

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	services := app.Services
	authHandler := handler.NewAuthHandler(services.Auth)
	datasetHandler := handler.NewDatasetHandler(services.Datasets)
	conversationHandler := handler.NewConversationHandler(services.Ledger)
	messageHandler := handler.NewMessageHandler(services.Chat)
	marketplaceHandler := handler.NewMarketplaceHandler(services.Marketplace)
	statsHandler := handler.NewStatsHandler(services.Stats)

	api := router.Group("/api")
	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("")
	secured.Use(middleware.OptionalAuth(app.Config.Auth.JWTSecret, services.Auth, app.DemoUser.ID, app.DemoUser.Username))

	secured.GET("/datasets", datasetHandler.List)
	secured.GET("/datasets/:id", datasetHandler.Get)
	secured.POST("/datasets", datasetHandler.Create)

	secured.GET("/conversations", conversationHandler.List)
	secured.GET("/conversations/:id", conversationHandler.Get)
	secured.POST("/conversations", conversationHandler.Create)

	secured.POST("/messages", messageHandler.Create)

	secured.GET("/marketplace", marketplaceHandler.List)
	secured.GET("/marketplace/:id", marketplaceHandler.Get)
	secured.POST("/marketplace", marketplaceHandler.Create)

	secured.GET("/stats", statsHandler.Get)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

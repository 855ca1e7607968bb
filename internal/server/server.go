package server

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Meesho/BharatMLStack/rental-pricer/handlers/pricing"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/configs"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/logger"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/middleware"
)

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(appConfigs *configs.AppConfigs, handler *pricing.PricingHandler) *gin.Engine {
	env := appConfigs.Configs.ApplicationEnv
	if env == "prod" || env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Telemetry())

	// The exploratory dashboard calls /predict from the browser.
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	router.Use(cors.New(corsConfig))

	router.GET("/health/self", func(c *gin.Context) {
		c.String(http.StatusOK, "true")
	})
	router.GET("/", pricing.Landing)
	router.GET("/docs", pricing.Docs)
	router.POST("/predict", handler.Predict)

	return router
}

// InitServer starts the HTTP listener and blocks until it exits.
func InitServer(appConfigs *configs.AppConfigs) {
	middleware.InitHTTPMiddleware()
	router := NewRouter(appConfigs, pricing.Instance())

	address := fmt.Sprintf(":%d", appConfigs.Configs.ApplicationPort)
	logger.Info(fmt.Sprintf("rental-pricer started on port %s", address))
	if err := router.Run(address); err != nil {
		logger.Panic("Failed to start rental-pricer application!", err)
	}
}

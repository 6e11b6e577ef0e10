package routes

import (
	"net/http"
	"time"

	"github.com/Govind-619/Storefront/config"
	"github.com/Govind-619/Storefront/controllers"
	"github.com/Govind-619/Storefront/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionMaxAge = 7 * 24 * time.Hour

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(h *controllers.Handler, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	if cfg.RequestTimeout > 0 {
		router.Use(utils.TimeoutMiddleware(cfg.RequestTimeout))
	}

	// Guest cart tokens live in a cookie session
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   int(sessionMaxAge.Seconds()),
		Path:     "/",
		Secure:   cfg.IsProduction(),
		HttpOnly: true,
	})
	router.Use(sessions.Sessions("storefront", store))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		initCartRoutes(api, h, cfg)
		initAdminRoutes(api, h, cfg)
	}

	return router
}

// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"ingresso/internal/auth"
	"ingresso/internal/eventconfig"
	"ingresso/internal/events"
	"ingresso/internal/favorites"
	"ingresso/internal/notifications"
	"ingresso/internal/shared/config"
	"ingresso/internal/shared/database"
	"ingresso/pkg/cache"
	"ingresso/pkg/storage"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	cache    cache.Service
	uploader storage.Uploader
	notifier notifications.Producer

	// services shared across route groups
	eventService events.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, uploader storage.Uploader, notifier notifications.Producer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		cache:    cache.NewService(db.GetRedisClient()),
		uploader: uploader,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Event routes first, the configuration and favorites groups
		// borrow the event service.
		r.setupEventRoutes(api)
		r.setupConfigurationRoutes(api)
		r.setupFavoriteRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "ingresso-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "ingresso-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg)
}

// setupEventRoutes configures event management routes
func (r *Router) setupEventRoutes(rg *gin.RouterGroup) {
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	eventService := events.NewService(eventRepo)
	eventService.SetCacheService(r.cache)
	if r.uploader != nil {
		eventService.SetUploader(r.uploader)
	}

	r.eventService = eventService

	eventController := events.NewController(eventService)
	events.SetupEventRoutes(rg, eventController)
}

// setupConfigurationRoutes configures ticket configuration routes
func (r *Router) setupConfigurationRoutes(rg *gin.RouterGroup) {
	configRepo := eventconfig.NewRepository(r.db.GetPostgreSQL())
	configService := eventconfig.NewService(configRepo)
	configService.SetEventService(r.eventService)
	configService.SetCacheService(r.cache)
	configService.SetDraftTTL(r.config.Redis.DraftTTL)
	if r.notifier != nil {
		configService.SetNotifier(r.notifier)
	}

	configController := eventconfig.NewController(configService, r.uploader)
	eventconfig.SetupConfigurationRoutes(rg, configController)
}

// setupFavoriteRoutes configures favorite management routes
func (r *Router) setupFavoriteRoutes(rg *gin.RouterGroup) {
	favoriteRepo := favorites.NewRepository(r.db.GetPostgreSQL())
	favoriteService := favorites.NewService(favoriteRepo)
	favoriteService.SetCacheService(r.cache)
	favoriteService.SetEventChecker(r.eventService)

	favoriteController := favorites.NewController(favoriteService)
	favorites.SetupFavoriteRoutes(rg, favoriteController)
}

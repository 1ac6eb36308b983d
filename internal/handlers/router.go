package handlers

import (
	"time"

	"foodshare-service/internal/auth"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"
	"foodshare-service/internal/service"
	"foodshare-service/pkg/logger"
	"foodshare-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterConfig holds everything the HTTP layer is built from.
type RouterConfig struct {
	Store          repository.Store
	Deps           service.Deps
	JWTManager     *auth.JWTManager
	RequestIDStore middleware.RequestIDStore
	IdempotencyTTL time.Duration
	Logger         *zap.Logger
}

// NewRouter builds the gin engine with the middleware chain and every API route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if cfg.RequestIDStore == nil {
		cfg.RequestIDStore = middleware.NewInMemoryRequestIDStore()
	}
	if cfg.IdempotencyTTL == 0 {
		cfg.IdempotencyTTL = 5 * time.Minute
	}

	accounts := service.NewAccountService(cfg.Deps)
	accountHandler := NewAccountHandler(accounts, cfg.JWTManager, log)
	listingHandler := NewListingHandler(service.NewListingService(cfg.Deps), accounts)
	requestHandler := NewRequestHandler(service.NewRequestService(cfg.Deps), accounts)
	notificationHandler := NewNotificationHandler(service.NewNotificationService(cfg.Deps))

	router := gin.New()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RecoveryHandler(log))
	router.Use(middleware.RequestIDMiddleware(log))
	router.Use(logger.GinMiddleware(log))
	router.Use(middleware.IdempotencyMiddleware(cfg.RequestIDStore, log, cfg.IdempotencyTTL))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authenticated := middleware.AuthMiddleware(cfg.JWTManager, log)
	restaurantOnly := middleware.RequireRole(domain.RoleRestaurant, domain.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", HealthCheck(cfg.Store))

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", accountHandler.Signup)
			authGroup.GET("/me", authenticated, accountHandler.Me)
		}

		foods := v1.Group("/foods")
		{
			foods.GET("", listingHandler.BrowseListings)
			foods.GET("/my/listings", authenticated, restaurantOnly, listingHandler.MyListings)
			foods.GET("/:id", listingHandler.GetListing)
			foods.POST("", authenticated, restaurantOnly, listingHandler.CreateListing)
			foods.PUT("/:id", authenticated, restaurantOnly, listingHandler.UpdateListing)
			foods.DELETE("/:id", authenticated, restaurantOnly, listingHandler.DeleteListing)
		}

		restaurants := v1.Group("/restaurants")
		{
			restaurants.POST("", authenticated, accountHandler.CreateRestaurant)
			restaurants.GET("/me", authenticated, accountHandler.MyRestaurant)
			restaurants.GET("/:id", accountHandler.GetRestaurant)
		}

		protected := v1.Group("")
		protected.Use(authenticated)
		{
			requests := protected.Group("/requests")
			{
				requests.POST("", requestHandler.CreateFoodRequest)
				requests.GET("/my", requestHandler.MyRequests)
				requests.GET("/restaurant", restaurantOnly, requestHandler.RestaurantRequests)
				requests.GET("/:id", requestHandler.GetFoodRequest)
				requests.PUT("/:id/status", restaurantOnly, requestHandler.UpdateRequestStatus)
				requests.PUT("/:id/cancel", requestHandler.CancelFoodRequest)
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", notificationHandler.ListNotifications)
				notifications.PUT("/read-all", notificationHandler.MarkAllRead)
				notifications.PUT("/:id/read", notificationHandler.MarkRead)
				notifications.DELETE("/:id", notificationHandler.DeleteNotification)
			}

			admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
			{
				admin.PUT("/restaurants/:id/verify", accountHandler.VerifyRestaurant)
			}
		}
	}

	return router
}

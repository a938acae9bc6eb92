package events

import (
	"ingresso/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - buyers browse events without authentication.
	public := router.Group("/events")
	{
		public.GET("", controller.GetAllEvents)
		public.GET("/upcoming", controller.GetUpcomingEvents)
		public.GET("/:eventId", controller.GetEvent)
	}

	// Producer routes - event management requires the producer role.
	producer := router.Group("/producer/events")
	producer.Use(middleware.JWTAuth(), middleware.RequireProducer())
	{
		producer.POST("", controller.CreateEvent)
		producer.GET("", controller.GetMyEvents)
		producer.PUT("/:eventId", controller.UpdateEvent)
		producer.DELETE("/:eventId", controller.DeleteEvent)
		producer.POST("/:eventId/cover", controller.UploadCover)
	}

	// Admin moderation - admins can edit or remove any event.
	admin := router.Group("/admin/events")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.PUT("/:eventId", controller.UpdateEvent)
		admin.DELETE("/:eventId", controller.DeleteEvent)
	}
}

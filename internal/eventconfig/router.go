package eventconfig

import (
	"ingresso/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupConfigurationRoutes(router *gin.RouterGroup, controller Controller) {
	// Public route - buyers need the sector/ticket structure to purchase.
	router.GET("/events/:eventId/configuration", controller.GetConfiguration)

	// Producer routes - configuration editing is producer-only.
	producer := router.Group("/producer/events/:eventId/configuration")
	producer.Use(middleware.JWTAuth(), middleware.RequireProducer())
	{
		producer.POST("", controller.SubmitConfiguration)

		producer.POST("/draft", controller.StartDraft)
		producer.GET("/draft", controller.GetDraft)
		producer.POST("/draft/commands", controller.ApplyDraftCommand)
		producer.POST("/draft/submit", controller.SubmitDraft)
		producer.DELETE("/draft", controller.DiscardDraft)
	}

	uploads := router.Group("/producer/uploads")
	uploads.Use(middleware.JWTAuth(), middleware.RequireProducer())
	{
		uploads.POST("/product-image", controller.UploadProductImage)
	}
}

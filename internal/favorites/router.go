package favorites

import (
	"ingresso/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupFavoriteRoutes(router *gin.RouterGroup, controller Controller) {
	favorites := router.Group("/favorites")
	favorites.Use(middleware.JWTAuth())
	{
		favorites.GET("", controller.GetFavorites)
		favorites.POST("/:eventId", controller.AddFavorite)
		favorites.DELETE("/:eventId", controller.RemoveFavorite)
	}
}

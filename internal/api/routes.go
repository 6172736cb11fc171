package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes.
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		articles := v1.Group("/articles")
		{
			articles.GET("/latest", handler.LatestArticles)
			articles.GET("/:id/rating", handler.GetRating)
		}

		ratings := v1.Group("/ratings")
		{
			ratings.POST("/analyze", handler.Analyze)
		}

		v1.POST("/summarize", handler.Summarize)
	}
}

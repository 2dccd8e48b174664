package api

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter sets up the API router
func NewRouter(handler *Handler, maxUploadBytes int64, logger *log.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(BodyLimitMiddleware(maxUploadBytes))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handler.HealthCheck)

	router.GET("/download", handler.DownloadDocument)
	router.GET("/download/:token", handler.DownloadDocument)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/check", handler.CheckPlagiarism)
		apiGroup.POST("/detect", handler.DetectAI)
		apiGroup.POST("/humanize", handler.Humanize)
		apiGroup.POST("/compare", handler.CompareTexts)
		apiGroup.POST("/report", handler.SimilarityReport)
	}

	return router
}

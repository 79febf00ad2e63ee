package routes

import (
	"essayhub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupEssayRoutes registers essay CRUD and the analysis endpoints.
func SetupEssayRoutes(router *gin.RouterGroup) {
	essays := router.Group("/essays")
	{
		essays.POST("", controllers.CreateEssay)
		essays.GET("", controllers.ListEssays)
		essays.GET("/:id", controllers.GetEssay)
		essays.PUT("/:id", controllers.UpdateEssay)
		essays.DELETE("/:id", controllers.DeleteEssay)

		essays.GET("/:id/analysis", controllers.GetAnalysis)
		essays.POST("/:id/reanalyze", controllers.Reanalyze)
		essays.GET("/:id/analysis/ws", controllers.AnalysisSocket)

		essays.GET("/:id/evaluations", controllers.ListEvaluations)
	}

	// Teachers submit scans collected in class on a student's behalf.
	router.POST("/students/:id/essays", controllers.CreateEssayForStudent)
}

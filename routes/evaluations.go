package routes

import (
	"essayhub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupEvaluationRoutes registers the human-grading endpoints.
func SetupEvaluationRoutes(router *gin.RouterGroup) {
	evaluations := router.Group("/evaluations")
	{
		evaluations.POST("", controllers.CreateEvaluation)
		evaluations.PUT("/:id", controllers.UpdateEvaluation)
		evaluations.DELETE("/:id", controllers.DeleteEvaluation)
	}
}

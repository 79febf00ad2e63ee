package routes

import (
	"essayhub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupClassroomRoutes registers classroom management endpoints.
func SetupClassroomRoutes(router *gin.RouterGroup) {
	classrooms := router.Group("/classrooms")
	{
		classrooms.POST("", controllers.CreateClassroom)
		classrooms.GET("", controllers.ListClassrooms)
		classrooms.GET("/:id", controllers.GetClassroom)
		classrooms.DELETE("/:id", controllers.DeleteClassroom)
		classrooms.POST("/:id/students", controllers.AddStudent)
		classrooms.GET("/:id/students", controllers.ListStudents)
		classrooms.DELETE("/:id/students/:studentId", controllers.RemoveStudent)
		classrooms.GET("/:id/essays", controllers.ListClassroomEssays)
		classrooms.GET("/:id/stats", controllers.GetClassroomStats)
	}
}

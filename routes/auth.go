package routes

import (
	"essayhub/controllers"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers the public authentication endpoints.
func SetupAuthRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", controllers.SignUp)
		auth.POST("/login", controllers.Login)
		auth.POST("/verifyToken", controllers.VerifyToken)
	}
}

// SetupAccountRoutes registers account endpoints that require a valid
// session.
func SetupAccountRoutes(router *gin.RouterGroup) {
	router.PUT("/auth/change-password", controllers.ChangePassword)
}

package routes

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisteredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupAuthRoutes(router)

	protected := router.Group("/")
	SetupAccountRoutes(protected)
	SetupEssayRoutes(protected)
	SetupEvaluationRoutes(protected)
	SetupClassroomRoutes(protected)

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	want := []string{
		"POST /auth/signup",
		"POST /auth/login",
		"POST /auth/verifyToken",
		"PUT /auth/change-password",
		"POST /essays",
		"GET /essays",
		"GET /essays/:id",
		"PUT /essays/:id",
		"DELETE /essays/:id",
		"GET /essays/:id/analysis",
		"POST /essays/:id/reanalyze",
		"GET /essays/:id/analysis/ws",
		"GET /essays/:id/evaluations",
		"POST /students/:id/essays",
		"POST /evaluations",
		"PUT /evaluations/:id",
		"DELETE /evaluations/:id",
		"POST /classrooms",
		"GET /classrooms",
		"GET /classrooms/:id",
		"DELETE /classrooms/:id",
		"POST /classrooms/:id/students",
		"GET /classrooms/:id/students",
		"DELETE /classrooms/:id/students/:studentId",
		"GET /classrooms/:id/essays",
		"GET /classrooms/:id/stats",
	}
	for _, w := range want {
		if !registered[w] {
			t.Errorf("Route %s is not registered", w)
		}
	}
}

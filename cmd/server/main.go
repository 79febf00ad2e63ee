package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"essayhub/config"
	"essayhub/controllers"
	"essayhub/db"
	"essayhub/middlewares"
	"essayhub/routes"
	"essayhub/services"
	"essayhub/utils"
	"essayhub/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Connect to MongoDB using the URI from the configuration
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	store := db.NewStore(db.MongoDatabase)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	if err := middlewares.InitCasbin(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to initialize RBAC: %v", err)
	}

	provider, err := services.NewGeminiProvider(cfg.Gemini.ApiKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}

	notifier := websocket.NewNotifier()
	orchestrator := services.NewOrchestrator(provider, store)
	orchestrator.SetCompletionFunc(notifier.Publish)
	aggregator := services.NewAggregator(store)
	policy := services.NewAccessPolicy(middlewares.GetEnforcer(), store)

	// Create uploads directory
	if err := os.MkdirAll(cfg.Server.UploadDir, os.ModePerm); err != nil {
		log.Fatalf("Failed to create upload directory %s: %v", cfg.Server.UploadDir, err)
	}

	controllers.Init(store, orchestrator, aggregator, policy, notifier, cfg.Server.UploadDir)

	// Set up the Gin router and configure routes
	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	// Public routes for authentication
	routes.SetupAuthRoutes(router)

	// Protected routes (JWT auth)
	auth := router.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		routes.SetupAccountRoutes(auth)
		routes.SetupEssayRoutes(auth)
		routes.SetupEvaluationRoutes(auth)
		routes.SetupClassroomRoutes(auth)
	}

	return router
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"challenge-service/internal/achievement"
	"challenge-service/internal/best"
	"challenge-service/internal/cache"
	"challenge-service/internal/db"
	"challenge-service/internal/event"
	"challenge-service/internal/handlers"
	"challenge-service/internal/repository"
	"challenge-service/internal/service"
	"challenge-service/internal/session"
	"challenge-service/internal/syncer"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	if err := db.InitMongo(mongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.CloseMongo()

	// RabbitMQ event publisher (optional)
	publisher, err := event.NewPublisher(os.Getenv("RABBITMQ_URI"), envOr("RABBITMQ_EXCHANGE", "challenge.events"))
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Local best-map cache: redis when configured, in-memory otherwise
	var localCache syncer.LocalCache = cache.NewMemoryCache()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PWD"),
		})
		localCache = cache.NewRedisCache(client)
	} else {
		log.Println("Redis not configured, best-map cache is in-memory only")
	}

	database := db.Client.Database("challenge_service")
	remote := repository.NewRemoteStore(database)

	bests := best.NewStore()
	syncEngine := syncer.NewEngine(remote, localCache, bests)
	progression := service.NewProgressionService(remote, achievement.NewEngine(nil), publisher)
	catalog := service.NewCatalog(service.DefaultChallenges())
	orchestrator := session.NewOrchestrator(bests, progression, syncEngine)
	go orchestrator.RunSweeper(context.Background(), time.Minute)

	challengeHandler := handlers.NewChallengeHandler(catalog)
	sessionHandler := handlers.NewSessionHandler(orchestrator, catalog)
	bestHandler := handlers.NewBestHandler(bests, syncEngine)
	progressHandler := handlers.NewProgressHandler(progression)
	adminHandler := handlers.NewAdminHandler(remote, bests)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes - challenge catalog
	publicChallenge := r.Group("/public/challenge")
	{
		publicChallenge.GET("/", challengeHandler.ListChallenges)
		publicChallenge.GET("/:id", challengeHandler.GetChallenge)
	}

	// Session routes - guests allowed, identity read from X-User-ID when set
	sessionGroup := r.Group("/challenge/session")
	{
		sessionGroup.POST("/", func(c *gin.Context) {
			sessionHandler.CreateSession(c)
			if c.Writer.Status() == http.StatusCreated {
				if err := publisher.Publish("challenge.session.created", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				}); err != nil {
					log.Printf("event: publish challenge.session.created: %v", err)
				}
			}
		})
		sessionGroup.GET("/:id", sessionHandler.GetSession)
		sessionGroup.POST("/:id/answer", sessionHandler.SubmitAnswer)
		sessionGroup.POST("/:id/quit", sessionHandler.QuitSession)
	}

	// Protected routes - require an authenticated identity
	protected := r.Group("/protected/challenge")
	protected.Use(requireUser())
	{
		protected.GET("/best", bestHandler.GetBests)
		protected.POST("/sync", func(c *gin.Context) {
			bestHandler.TriggerSync(c)
			if c.Writer.Status() == http.StatusOK {
				if err := publisher.Publish("challenge.sync.completed", gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				}); err != nil {
					log.Printf("event: publish challenge.sync.completed: %v", err)
				}
			}
		})
		protected.GET("/progress", progressHandler.GetProgress)
		protected.DELETE("/admin/users/:id", adminHandler.WipeUser)
	}

	r.Run(":6667")
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
